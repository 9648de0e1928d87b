/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package config

import (
	"fmt"

	libval "github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/nabbar/kestrel/errors"
)

// rawBlock is the on-disk shape of one configuration overlay: a filter
// plus a flat map of entry-name to scalar-or-list value, matching the
// viper/YAML-friendly encoding the teacher's components use elsewhere.
type rawBlock struct {
	IP       string                 `mapstructure:"ip" yaml:"ip"`
	Hostname string                 `mapstructure:"hostname" yaml:"hostname"`
	Port     int                    `mapstructure:"port" yaml:"port"`
	Location string                 `mapstructure:"location" yaml:"location"`
	Entries  map[string]interface{} `mapstructure:"entries" yaml:"entries"`
}

type rawRoot struct {
	Configurations []rawBlock `mapstructure:"configurations" yaml:"configurations" validate:"required,min=1"`
}

// Load reads a YAML/JSON/TOML configuration file through viper and
// decodes it into a Root. The caller is responsible for the file path
// only; parsing and merge-key lookup are handled here.
func Load(path string) (*Root, errors.Error) {
	v := viper.New()
	v.SetConfigFile(path)

	if e := v.ReadInConfig(); e != nil {
		return nil, ErrorLoad.Error(e)
	}

	var raw rawRoot
	if e := v.Unmarshal(&raw); e != nil {
		return nil, ErrorDecode.Error(e)
	}

	if err := (&raw).Validate(); err != nil {
		return nil, err
	}

	root := &Root{Configurations: make([]ServerConfiguration, 0, len(raw.Configurations))}
	for _, b := range raw.Configurations {
		root.Configurations = append(root.Configurations, b.toServerConfiguration())
	}

	return root, nil
}

func (r *rawRoot) Validate() errors.Error {
	err := ErrorValidate.Error(nil)

	if e := libval.New().Struct(r); e != nil {
		if ve, ok := e.(*libval.InvalidValidationError); ok {
			err.Add(ve)
		}
		if verrs, ok := e.(libval.ValidationErrors); ok {
			for _, v := range verrs {
				err.Add(fmt.Errorf("config field '%s' failed constraint '%s'", v.StructNamespace(), v.ActualTag()))
			}
		}
	}

	if err.HasParent() {
		return err
	}

	return nil
}

func (b rawBlock) toServerConfiguration() ServerConfiguration {
	cfg := ServerConfiguration{
		Filter: Filter{
			IP:       b.IP,
			Hostname: b.Hostname,
			Port:     b.Port,
			Location: b.Location,
		},
	}

	for name, raw := range b.Entries {
		cfg.Entries = append(cfg.Entries, Entry{Name: name, Values: toValues(raw)})
	}

	return cfg
}

func toValues(raw interface{}) []Value {
	switch t := raw.(type) {
	case []interface{}:
		out := make([]Value, 0, len(t))
		for _, v := range t {
			out = append(out, toValue(v))
		}
		return out
	default:
		return []Value{toValue(raw)}
	}
}

func toValue(raw interface{}) Value {
	switch t := raw.(type) {
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case float64:
		return Int(int64(t))
	case nil:
		return Null()
	default:
		return String(fmt.Sprintf("%v", t))
	}
}

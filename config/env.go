package config

import (
	"fmt"
	"os"
	"reflect"

	"github.com/golobby/cast"
)

// ErrEnvInvalidStructure indicates the target is not a pointer to a struct.
var ErrEnvInvalidStructure = fmt.Errorf("env: target must be a pointer to a struct")

// EnvFeeder populates struct fields tagged with `env` from environment
// variables, applying an optional prefix to every variable name.
type EnvFeeder struct {
	Prefix string
}

// NewEnvFeeder creates a feeder reading variables named Prefix + tag.
func NewEnvFeeder(prefix string) EnvFeeder {
	return EnvFeeder{Prefix: prefix}
}

// Feed reads environment variables and populates the provided structure.
// Unset variables leave the field untouched.
func (f EnvFeeder) Feed(target any) error {
	value := reflect.ValueOf(target)
	if value.Kind() != reflect.Ptr || value.IsNil() || value.Elem().Kind() != reflect.Struct {
		return ErrEnvInvalidStructure
	}

	elem := value.Elem()
	for i := 0; i < elem.NumField(); i++ {
		field := elem.Type().Field(i)
		tag, ok := field.Tag.Lookup("env")
		if !ok || tag == "" {
			continue
		}

		raw, ok := os.LookupEnv(f.Prefix + tag)
		if !ok {
			continue
		}

		casted, err := cast.FromType(raw, field.Type)
		if err != nil {
			return fmt.Errorf("env: cannot cast %s for field %s: %w", f.Prefix+tag, field.Name, err)
		}
		elem.Field(i).Set(reflect.ValueOf(casted))
	}
	return nil
}

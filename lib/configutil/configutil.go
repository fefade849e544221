package configutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/titanous/json5"
)

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

// reads a configuration file, `name` should come with a file extension,
// it will automatically be lopped off to produce the other extensions.
// this function will merge the following files, where higher number is more prioritized.
// 1. <name>.<ext>
// 2. <name>.local.<ext>
func ReadConfig[T any](name string) (T, error) {
	var out T
	allNotFound := true

	dirname := filepath.Dir(name)
	basename := filepath.Base(name)
	prefixname, ext := splitExt(basename)

	defaultFile, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(defaultFile) > 0 {
		err = json5.Unmarshal(defaultFile, &out)
		if err != nil {
			return out, fmt.Errorf("parse %s: %w", name, err)
		}
		allNotFound = false
	}

	localFilepath := filepath.Join(
		dirname,
		fmt.Sprintf("%s.local.%s", prefixname, ext),
	)
	localFile, err := os.ReadFile(localFilepath)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(localFile) > 0 {
		var override T
		err = json5.Unmarshal(localFile, &override)
		if err != nil {
			return out, fmt.Errorf("parse %s: %w", localFilepath, err)
		}
		err = mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return out, err
		}
		slog.Info("merging config with local overrides", "local", localFilepath)
		allNotFound = false
	}

	if allNotFound {
		return out, os.ErrNotExist
	}

	return out, nil
}

// LoadDotEnv loads the given .env files (or ./.env) into the environment
// without replacing variables that are already set, missing files are
// ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		err := godotenv.Load(p)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load builds a config from defaults, the config file at `name` (and its
// local override) when it exists, then environment variables named
// <envPrefix>_<JSON KEY> for every top level string, number, bool and
// duration field. The result is validated with `validate` struct tags.
func Load[T any](name string, defaults T, envPrefix string) (T, error) {
	out := defaults

	if name != "" {
		fromFile, err := ReadConfig[T](name)
		if err != nil && !os.IsNotExist(err) {
			return out, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			err = mergo.Merge(&out, fromFile, mergo.WithOverride)
			if err != nil {
				return out, fmt.Errorf("read config: %w", err)
			}
		}
	}

	err := applyEnv(envPrefix, &out)
	if err != nil {
		return out, fmt.Errorf("read config: %w", err)
	}
	err = validate.Struct(out)
	if err != nil {
		return out, fmt.Errorf("invalid config: %w", err)
	}
	return out, nil
}

// EnvKey is the environment variable that overrides the config field
// with the given json key.
func EnvKey(prefix, jsonKey string) string {
	key := strings.ToUpper(strings.ReplaceAll(jsonKey, "-", "_"))
	if prefix == "" {
		return key
	}
	return fmt.Sprintf("%s_%s", prefix, key)
}

func applyEnv(prefix string, ptr any) error {
	value := reflect.ValueOf(ptr).Elem()
	if value.Kind() != reflect.Struct {
		return nil
	}
	fields := value.Type()

	for i := 0; i < fields.NumField(); i++ {
		field := fields.Field(i)
		if !field.IsExported() {
			continue
		}
		jsonKey, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if jsonKey == "-" {
			continue
		}
		if jsonKey == "" {
			jsonKey = field.Name
		}
		key := EnvKey(prefix, jsonKey)
		raw, ok := os.LookupEnv(key)
		if !ok {
			continue
		}

		err := setField(value.Field(i), raw)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

var durationType = reflect.TypeOf(time.Duration(0))

func setField(field reflect.Value, raw string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}

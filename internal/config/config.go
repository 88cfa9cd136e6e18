// Package config fills the flat CLI options struct from config.toml and
// BLINKNODE_* environment variables, and watches files for reloads.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/smazurov/blinknode/internal/logging"
)

// EnvPrefix is prepended to every env tag.
const EnvPrefix = "BLINKNODE_"

// option is one tagged field of the options struct.
type option struct {
	value reflect.Value
	name  string // Go field name
	flag  string
	toml  string // dotted path, e.g. server.port
	env   string // without EnvPrefix
}

// LoadConfig fills opts, a pointer to a flat struct, from the file named
// by its Config field and then from the environment. Fields whose flag
// was set on cmd's command line keep their value. Only string and bool
// fields may carry toml or env tags.
//
// A bad value is reported but does not stop the remaining fields from
// loading.
func LoadConfig(opts any, cmd *cobra.Command) error {
	fields, configPath, err := collect(opts)
	if err != nil {
		return err
	}

	file, err := readTOML(configPath)
	if err != nil {
		return err
	}

	explicit := make(map[string]bool)
	if cmd != nil {
		for _, o := range fields {
			if f := cmd.Flags().Lookup(o.flag); f != nil && f.Changed {
				explicit[o.flag] = true
			}
		}
	}

	var errs []error
	for _, o := range fields {
		if explicit[o.flag] {
			continue
		}
		if v, ok := lookup(file, o.toml); ok {
			if err := o.setTOML(v); err != nil {
				errs = append(errs, err)
			}
		}
		if o.env == "" {
			continue
		}
		if s := os.Getenv(EnvPrefix + o.env); s != "" {
			if err := o.setEnv(s); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// collect lists the tagged fields of opts and returns the Config path.
func collect(opts any) ([]option, string, error) {
	v := reflect.ValueOf(opts)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return nil, "", fmt.Errorf("options must be a pointer to a struct, got %T", opts)
	}
	v = v.Elem()
	t := v.Type()

	var (
		fields     []option
		configPath string
	)
	for i := range t.NumField() {
		sf := t.Field(i)
		if sf.Name == "Config" && sf.Type.Kind() == reflect.String {
			configPath = v.Field(i).String()
			continue
		}
		o := option{
			value: v.Field(i),
			name:  sf.Name,
			flag:  fieldNameToFlag(sf.Name),
			toml:  sf.Tag.Get("toml"),
			env:   sf.Tag.Get("env"),
		}
		if o.toml == "" && o.env == "" {
			continue
		}
		if k := sf.Type.Kind(); k != reflect.String && k != reflect.Bool {
			return nil, "", fmt.Errorf("option %s: unsupported type %s", sf.Name, sf.Type)
		}
		fields = append(fields, o)
	}
	return fields, configPath, nil
}

// readTOML parses path. A missing file or empty path yields no values.
func readTOML(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var file map[string]any
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return file, nil
}

// lookup walks a dotted path through nested tables.
func lookup(file map[string]any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	keys := strings.Split(path, ".")
	table := file
	for _, k := range keys[:len(keys)-1] {
		next, ok := table[k].(map[string]any)
		if !ok {
			return nil, false
		}
		table = next
	}
	v, ok := table[keys[len(keys)-1]]
	return v, ok
}

func (o option) setTOML(v any) error {
	switch o.value.Kind() {
	case reflect.String:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%s: want a string, got %T", o.toml, v)
		}
		o.value.SetString(s)
	case reflect.Bool:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("%s: want true or false, got %T", o.toml, v)
		}
		o.value.SetBool(b)
	}
	return nil
}

func (o option) setEnv(s string) error {
	switch o.value.Kind() {
	case reflect.String:
		o.value.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, o.env, err)
		}
		o.value.SetBool(b)
	}
	return nil
}

// fieldNameToFlag converts a struct field name to a CLI flag name the
// way humacli does: "LoggingLevel" -> "logging-level", "LoggingAPI" ->
// "logging-api", a run of capitals counting as one word.
func fieldNameToFlag(fieldName string) string {
	runes := []rune(fieldName)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || (unicode.IsUpper(runes[i-1]) && nextLower) {
				b.WriteByte('-')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// LoadLoggingConfig reads the [logging] table: level, format and one
// level per module in logging.Modules. Other keys are ignored. A missing
// or unreadable file yields info level text output.
func LoadLoggingConfig(configPath string) logging.Config {
	cfg := logging.Config{
		Level:   "info",
		Format:  "text",
		Modules: make(map[string]string),
	}

	file, err := readTOML(configPath)
	if err != nil {
		return cfg
	}
	str := func(key string) (string, bool) {
		v, ok := lookup(file, "logging."+key)
		s, isStr := v.(string)
		return s, ok && isStr
	}

	if s, ok := str("level"); ok {
		cfg.Level = s
	}
	if s, ok := str("format"); ok {
		cfg.Format = s
	}
	for _, module := range logging.Modules {
		if s, ok := str(module); ok {
			cfg.Modules[module] = s
		} else if s, ok := str("modules." + module); ok {
			cfg.Modules[module] = s
		}
	}
	return cfg
}

package config

import (
	"errors"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/pelletier/go-toml/v2"
	"github.com/smazurov/blinkid/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// EnvPrefix is prepended to every env tag.
const EnvPrefix = "BLINKID_"

// binding ties one options field to its three sources.
type binding struct {
	value   reflect.Value
	flag    string
	tomlKey string
	envKey  string
}

// LoadConfig fills opts from the config file and then from BLINKID_*
// variables, skipping any field whose flag was given on the command line.
// Precedence is therefore CLI > env > file > flag default.
//
// opts must point to a flat struct. Fields are bound with `toml:"section.key"`
// and `env:"KEY"` tags; the string field named Config holds the file path.
// A missing file is not an error. With a cmd, fields not set on the command
// line are first reset to their flag default, so calling LoadConfig again on
// a copy of the startup options reflects keys removed from the file.
func LoadConfig(opts any, cmd *cobra.Command) error {
	bindings, path := bindFields(reflect.ValueOf(opts).Elem())

	doc, err := readTOML(path)
	if err != nil {
		return err
	}

	for _, b := range bindings {
		if f := lookupFlag(cmd, b.flag); f != nil {
			if f.Changed {
				continue
			}
			if b.value.Kind() != reflect.Slice {
				assignString(b.value, f.DefValue)
			}
		}
		if b.tomlKey != "" && doc != nil {
			if v := getNestedValue(doc, b.tomlKey); v != nil {
				assign(b.value, v)
			}
		}
		if b.envKey != "" {
			if s := os.Getenv(EnvPrefix + b.envKey); s != "" {
				assignString(b.value, s)
			}
		}
	}
	return nil
}

// lookupFlag finds name among cmd's local and persistent flags.
func lookupFlag(cmd *cobra.Command, name string) *pflag.Flag {
	if cmd == nil {
		return nil
	}
	if f := cmd.Flags().Lookup(name); f != nil {
		return f
	}
	return cmd.PersistentFlags().Lookup(name)
}

func bindFields(v reflect.Value) ([]binding, string) {
	t := v.Type()
	var path string
	bindings := make([]binding, 0, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if f.Name == "Config" && f.Type.Kind() == reflect.String {
			path = v.Field(i).String()
			continue
		}
		bindings = append(bindings, binding{
			value:   v.Field(i),
			flag:    flagNameFor(f),
			tomlKey: f.Tag.Get("toml"),
			envKey:  f.Tag.Get("env"),
		})
	}
	return bindings, path
}

// readTOML returns nil, nil when path is empty or absent.
func readTOML(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, newError(ErrCodeParseFailed, "failed to read config "+path, err)
	}
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, newError(ErrCodeParseFailed, "failed to parse TOML config "+path, err)
	}
	return doc, nil
}

// fieldNameToFlag kebab-cases a field name: "LoggingLevel" -> "logging-level".
func fieldNameToFlag(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte('-')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// flagNameFor returns the flag humacli registers for a field: the name tag
// when present, otherwise the kebab-cased field name.
func flagNameFor(field reflect.StructField) string {
	if name := field.Tag.Get("name"); name != "" {
		return name
	}
	return fieldNameToFlag(field.Name)
}

// getNestedValue resolves a dotted key such as "timing.fade_step".
func getNestedValue(doc map[string]any, key string) any {
	section, rest, nested := strings.Cut(key, ".")
	if !nested {
		return doc[key]
	}
	table, ok := doc[section].(map[string]any)
	if !ok {
		return nil
	}
	return getNestedValue(table, rest)
}

// assign stores a decoded TOML value; mismatched types are ignored.
func assign(field reflect.Value, value any) {
	if !field.CanSet() {
		return
	}
	switch field.Kind() {
	case reflect.String:
		if s, ok := value.(string); ok {
			field.SetString(s)
		}
	case reflect.Bool:
		if b, ok := value.(bool); ok {
			field.SetBool(b)
		}
	case reflect.Int, reflect.Int64:
		switch n := value.(type) {
		case int64:
			field.SetInt(n)
		case float64:
			field.SetInt(int64(n))
		}
	case reflect.Slice:
		items, ok := value.([]any)
		if !ok || field.Type().Elem().Kind() != reflect.String {
			return
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		field.Set(reflect.ValueOf(out))
	}
}

// assignString parses an env value into the field. String slices are
// comma separated.
func assignString(field reflect.Value, s string) {
	if !field.CanSet() {
		return
	}
	switch field.Kind() {
	case reflect.String:
		field.SetString(s)
	case reflect.Bool:
		if b, err := strconv.ParseBool(s); err == nil {
			field.SetBool(b)
		}
	case reflect.Int, reflect.Int64:
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			field.SetInt(n)
		}
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return
		}
		parts := strings.Split(s, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		field.Set(reflect.ValueOf(parts))
	}
}

// LoadLoggingConfig reads the [logging] table. Keys other than level and
// format are per-module levels. Unset level and format default to info and
// text; a missing file yields just the defaults.
func LoadLoggingConfig(path string) (logging.Config, error) {
	cfg := logging.Config{Level: "info", Format: "text", Modules: map[string]string{}}

	doc, err := readTOML(path)
	if err != nil || doc == nil {
		return cfg, err
	}
	table, _ := doc["logging"].(map[string]any)
	for key, raw := range table {
		value, ok := raw.(string)
		if !ok {
			continue
		}
		switch key {
		case "level":
			cfg.Level = value
		case "format":
			cfg.Format = value
		default:
			cfg.Modules[key] = value
		}
	}
	return cfg, nil
}

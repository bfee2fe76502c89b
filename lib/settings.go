package lib

import "strings"

// Settings map of settings parameters. Keys are dot separated names,
// "<section>.<param>", values are numbers, strings or booleans.
type Settings map[string]interface{}

// Section will create a new settings object with parameters
// starting with `prefix`.
func (setts Settings) Section(prefix string) Settings {
	section := make(Settings)
	for key, value := range setts {
		if strings.HasPrefix(key, prefix) {
			section[key] = value
		}
	}
	return section
}

// Trim settings parameter with `prefix` string.
func (setts Settings) Trim(prefix string) Settings {
	trimmed := make(Settings)
	for key, value := range setts {
		trimmed[strings.TrimPrefix(key, prefix)] = value
	}
	return trimmed
}

// AddPrefix prepend `prefix` to every settings parameter.
func (setts Settings) AddPrefix(prefix string) Settings {
	prefixed := make(Settings)
	for key, value := range setts {
		prefixed[prefix+key] = value
	}
	return prefixed
}

// Mixin settings to override `setts` with `settings`. Mixin updates
// `setts` in place and returns the same.
func (setts Settings) Mixin(settings ...interface{}) Settings {
	update := func(arg map[string]interface{}) {
		for key, value := range arg {
			setts[key] = value
		}
	}
	for _, arg := range settings {
		switch cnf := arg.(type) {
		case Settings:
			update(map[string]interface{}(cnf))
		case map[string]interface{}:
			update(cnf)
		}
	}
	return setts
}

// Bool return the boolean value for key.
func (setts Settings) Bool(key string) bool {
	if value, ok := setts[key]; !ok {
		panicerr("missing settings %q", key)
	} else if val, ok := value.(bool); !ok {
		panicerr("settings %q not a bool: %T", key, value)
	} else {
		return val
	}
	panic("unreachable code")
}

// Int64 return the int64 value for key.
func (setts Settings) Int64(key string) int64 {
	value, ok := setts[key]
	if !ok {
		panicerr("missing settings %q", key)
	}
	switch val := value.(type) {
	case float64:
		return int64(val)
	case float32:
		return int64(val)
	case uint:
		return int64(val)
	case uint64:
		return int64(val)
	case uint32:
		return int64(val)
	case uint16:
		return int64(val)
	case uint8:
		return int64(val)
	case uintptr:
		return int64(val)
	case int:
		return int64(val)
	case int64:
		return val
	case int32:
		return int64(val)
	case int16:
		return int64(val)
	case int8:
		return int64(val)
	}
	panicerr("settings %v not a number: %T", key, value)
	return 0
}

// String return the string value for key.
func (setts Settings) String(key string) string {
	if value, ok := setts[key]; !ok {
		panicerr("missing settings %q", key)
	} else if val, ok := value.(string); !ok {
		panicerr("settings %v not a string: %T", key, value)
	} else {
		return val
	}
	panic("unreachable code")
}

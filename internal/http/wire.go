package http

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// flexInt acepta numeros JSON o strings numericos; la parte fraccionaria se trunca.
// null o campo ausente dejan Set en false. Un valor presente que no se puede leer
// (texto, "", objetos) tampoco queda Set, pero marca Invalid; nunca es error de JSON.
type flexInt struct {
	Value   int64
	Set     bool
	Invalid bool
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	*f = flexInt{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			f.Value, f.Set = parseFlexInt(s)
		}
	case 't':
		f.Value, f.Set = 1, bytes.Equal(b, []byte("true"))
	case 'f':
		f.Value, f.Set = 0, bytes.Equal(b, []byte("false"))
	default:
		f.Value, f.Set = parseFlexInt(string(b))
	}
	f.Invalid = !f.Set
	return nil
}

// queryFlexInt lee un parametro de query opcional con las mismas reglas que el cuerpo JSON.
func queryFlexInt(raw string, present bool) flexInt {
	if !present {
		return flexInt{}
	}
	v, ok := parseFlexInt(raw)
	return flexInt{Value: v, Set: ok, Invalid: !ok}
}

func (f flexInt) IntPtr() *int {
	if !f.Set || f.Value < math.MinInt32 || f.Value > math.MaxInt32 {
		return nil
	}
	v := int(f.Value)
	return &v
}

func (f flexInt) Int64Ptr() *int64 {
	if !f.Set {
		return nil
	}
	v := f.Value
	return &v
}

// Int64 devuelve 0 cuando el valor esta ausente, que luego falla la validacion de ids positivos.
func (f flexInt) Int64() int64 {
	if !f.Set {
		return 0
	}
	return f.Value
}

func parseFlexInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, true
	}
	fv, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(fv) || math.IsInf(fv, 0) {
		return 0, false
	}
	fv = math.Trunc(fv)
	if fv < math.MinInt64 || fv >= math.MaxInt64 {
		return 0, false
	}
	return int64(fv), true
}

// flexString acepta strings o numeros y los devuelve como texto.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	*f = ""
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	if b[0] == '{' || b[0] == '[' {
		return nil
	}
	*f = flexString(b)
	return nil
}

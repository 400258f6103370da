package invoker

import (
	"net/url"
)

// Data is a request body.
type Data interface {
	Encode() string
}

// Values is form data encoded with sorted keys.
type Values url.Values

// Encode implements Data.
func (v Values) Encode() string {
	return url.Values(v).Encode()
}

// Map is single-valued form data.
type Map map[string]string

// Encode implements Data.
func (m Map) Encode() string {
	v := make(url.Values, len(m))
	for k, val := range m {
		v.Set(k, val)
	}
	return v.Encode()
}

// Raw is a body that is already encoded.
type Raw string

// Encode implements Data.
func (r Raw) Encode() string {
	return string(r)
}

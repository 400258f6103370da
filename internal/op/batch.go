package op

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/tidwall/gjson"
)

// Batch is an ordered response payload.
type Batch []Record

// Types returns the type name of each record, in order.
func (b Batch) Types() []string {
	out := make([]string, len(b))
	for i, rec := range b {
		out[i] = rec.Type()
	}
	return out
}

// DecodeBatch decodes a response body into a Batch.
//
// Accepted shapes:
//   - a JSON array of records, in array order;
//   - a JSON object: keys that are array indices first, in numeric order,
//     then every other key in document order;
//   - null, which is an empty batch.
//
// Every element must be an object. An object without a string "type"
// decodes to an untyped record, whose dispatch reports an unknown type.
func DecodeBatch(body []byte) (Batch, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrNotBatch)
	}
	if !gjson.ValidBytes(trimmed) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrNotBatch)
	}

	res := gjson.ParseBytes(trimmed)
	switch {
	case res.Type == gjson.Null:
		return Batch{}, nil
	case res.IsArray():
		return decodeArray(res)
	case res.IsObject():
		return decodeObject(res)
	default:
		return nil, fmt.Errorf("%w: got %s", ErrNotBatch, res.Type)
	}
}

func decodeArray(res gjson.Result) (Batch, error) {
	var (
		batch = Batch{}
		err   error
		i     int
	)
	res.ForEach(func(_, value gjson.Result) bool {
		var rec Record
		rec, err = elementFromResult(value)
		if err != nil {
			err = &RecordError{Index: i, Err: err}
			return false
		}
		batch = append(batch, rec)
		i++
		return true
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// arrayIndex reports whether key is a canonical array index: a decimal
// integer below 2^32-1 without sign or leading zeros.
func arrayIndex(key string) (uint64, bool) {
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil || n == math.MaxUint32 || strconv.FormatUint(n, 10) != key {
		return 0, false
	}
	return n, true
}

func elementFromResult(res gjson.Result) (Record, error) {
	rec, err := fromResult(res)
	if errors.Is(err, ErrMissingType) {
		return Record{raw: res.Raw}, nil
	}
	return rec, err
}

type keyedEntry struct {
	key   string
	index uint64
	value gjson.Result
}

func decodeObject(res gjson.Result) (Batch, error) {
	var indexed, named []keyedEntry
	res.ForEach(func(key, value gjson.Result) bool {
		e := keyedEntry{key: key.String(), value: value}
		if n, ok := arrayIndex(e.key); ok {
			e.index = n
			indexed = append(indexed, e)
		} else {
			named = append(named, e)
		}
		return true
	})

	sort.SliceStable(indexed, func(i, j int) bool {
		return indexed[i].index < indexed[j].index
	})
	entries := append(indexed, named...)

	batch := make(Batch, 0, len(entries))
	for i, e := range entries {
		rec, err := elementFromResult(e.value)
		if err != nil {
			return nil, &RecordError{Index: i, Key: e.key, Err: err}
		}
		batch = append(batch, rec)
	}
	return batch, nil
}

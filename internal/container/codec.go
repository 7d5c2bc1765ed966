package container

import (
	"fmt"

	"github.com/roach88/typematrix/internal/catalog"
	"github.com/roach88/typematrix/internal/defect"
)

type signed interface {
	~int8 | ~int16 | ~int32 | ~int64
}

type unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

type encoder[T any] func(catalog.Value) (T, error)

type decoder[T any] func(T) (catalog.Value, error)

func kindError(c catalog.Category, v catalog.Value) error {
	return defect.NewConstruction(c.String(), fmt.Sprintf("sample of type %T cannot be stored in %s", v, c))
}

func encodeSigned[T signed](c catalog.Category) encoder[T] {
	return func(v catalog.Value) (T, error) {
		iv, ok := v.(catalog.Int)
		if !ok {
			return 0, kindError(c, v)
		}
		t := T(iv)
		if int64(t) != int64(iv) {
			return 0, defect.NewConstruction(c.String(), fmt.Sprintf("sample %d truncated to %d on store", int64(iv), int64(t)))
		}
		return t, nil
	}
}

func decodeSigned[T signed](t T) (catalog.Value, error) {
	return catalog.Int(int64(t)), nil
}

func encodeUnsigned[T unsigned](c catalog.Category) encoder[T] {
	return func(v catalog.Value) (T, error) {
		uv, ok := v.(catalog.Uint)
		if !ok {
			return 0, kindError(c, v)
		}
		t := T(uv)
		if uint64(t) != uint64(uv) {
			return 0, defect.NewConstruction(c.String(), fmt.Sprintf("sample %d truncated to %d on store", uint64(uv), uint64(t)))
		}
		return t, nil
	}
}

func decodeUnsigned[T unsigned](t T) (catalog.Value, error) {
	return catalog.Uint(uint64(t)), nil
}

func encodeByte(c catalog.Category) encoder[byte] {
	return func(v catalog.Value) (byte, error) {
		b, ok := v.(catalog.Byte)
		if !ok {
			return 0, kindError(c, v)
		}
		return byte(b), nil
	}
}

func decodeByte(b byte) (catalog.Value, error) {
	return catalog.Byte(b), nil
}

// encodeFloat32 rounds to single precision. The read-back differs from the
// sample by the rounding error, which the checker's tolerance band absorbs.
func encodeFloat32(c catalog.Category) encoder[float32] {
	return func(v catalog.Value) (float32, error) {
		f, ok := v.(catalog.Float)
		if !ok {
			return 0, kindError(c, v)
		}
		return float32(f), nil
	}
}

func decodeFloat32(f float32) (catalog.Value, error) {
	return catalog.Float(float64(f)), nil
}

func encodeFloat64(c catalog.Category) encoder[float64] {
	return func(v catalog.Value) (float64, error) {
		f, ok := v.(catalog.Float)
		if !ok {
			return 0, kindError(c, v)
		}
		return float64(f), nil
	}
}

func decodeFloat64(f float64) (catalog.Value, error) {
	return catalog.Float(f), nil
}

func encodeBool(c catalog.Category) encoder[bool] {
	return func(v catalog.Value) (bool, error) {
		b, ok := v.(catalog.Bool)
		if !ok {
			return false, kindError(c, v)
		}
		return bool(b), nil
	}
}

func decodeBool(b bool) (catalog.Value, error) {
	return catalog.Bool(b), nil
}

func encodeText(c catalog.Category) encoder[string] {
	return func(v catalog.Value) (string, error) {
		s, ok := v.(catalog.Text)
		if !ok {
			return "", kindError(c, v)
		}
		return string(s), nil
	}
}

func decodeText(s string) (catalog.Value, error) {
	return catalog.Text(s), nil
}

// encodeEnum stores a Color as its raw discriminant in a slot of the
// target's word size. Discriminants that do not fit are rejected.
func encodeEnum[T signed](c catalog.Category) encoder[T] {
	return func(v catalog.Value) (T, error) {
		col, ok := v.(catalog.Color)
		if !ok {
			return 0, kindError(c, v)
		}
		t := T(col)
		if int64(t) != int64(col) {
			return 0, defect.NewConstruction(c.String(), fmt.Sprintf("discriminant %d truncated to %d on store", int64(col), int64(t)))
		}
		return t, nil
	}
}

func decodeEnum[T signed](t T) (catalog.Value, error) {
	return catalog.Color(int64(t)), nil
}

// record is the stack-scoped aggregate. The name is a borrowed text reference.
type record struct {
	x, y int64
	name string
}

func encodeRecord(c catalog.Category, t catalog.Target) encoder[record] {
	return func(v catalog.Value) (record, error) {
		p, ok := v.(catalog.Point)
		if !ok {
			return record{}, kindError(c, v)
		}
		if t.WordSize == 4 {
			if int64(int32(p.X)) != p.X || int64(int32(p.Y)) != p.Y {
				return record{}, defect.NewConstruction(c.String(), fmt.Sprintf("point (%d, %d) does not fit native int", p.X, p.Y))
			}
		}
		return record{x: p.X, y: p.Y, name: string(p.Name)}, nil
	}
}

func decodeRecord(r record) (catalog.Value, error) {
	return catalog.Point{X: r.x, Y: r.y, Name: catalog.Text(r.name)}, nil
}

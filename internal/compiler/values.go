package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
)

// lookup returns the named field of v.
func lookup(v cue.Value, name string) (cue.Value, bool) {
	f := v.LookupPath(cue.MakePath(cue.Str(name)))
	return f, f.Exists()
}

// stringField returns the named string field, or "" when it is absent.
func stringField(v cue.Value, name, path string) (string, error) {
	f, ok := lookup(v, name)
	if !ok {
		return "", nil
	}
	s, err := f.String()
	if err != nil {
		return "", fieldError(f, path+"."+name, "must be a string")
	}
	return s, nil
}

// floatField returns the named number field, or nil when it is absent.
func floatField(v cue.Value, name, path string) (*float64, error) {
	f, ok := lookup(v, name)
	if !ok {
		return nil, nil
	}
	n, err := number(f, path+"."+name)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func number(v cue.Value, path string) (float64, error) {
	if v.Kind()&cue.NumberKind == 0 {
		return 0, fieldError(v, path, "must be a number")
	}
	n, err := v.Float64()
	if err != nil {
		return 0, fieldError(v, path, "must be a number: %v", err)
	}
	return n, nil
}

// eachElem calls fn for every element of the named list field.
// An absent field is an empty list.
func eachElem(v cue.Value, name, path string, fn func(i int, elem cue.Value, elemPath string) error) error {
	f, ok := lookup(v, name)
	if !ok {
		return nil
	}
	if f.Kind() != cue.ListKind {
		return fieldError(f, path+"."+name, "must be a list")
	}
	iter, err := f.List()
	if err != nil {
		return formatCUEError(err)
	}
	for i := 0; iter.Next(); i++ {
		if err := fn(i, iter.Value(), fmt.Sprintf("%s.%s[%d]", path, name, i)); err != nil {
			return err
		}
	}
	return nil
}

// stringList returns the named list of strings.
func stringList(v cue.Value, name, path string) ([]string, error) {
	var out []string
	err := eachElem(v, name, path, func(_ int, elem cue.Value, elemPath string) error {
		s, err := elem.String()
		if err != nil {
			return fieldError(elem, elemPath, "must be a string")
		}
		out = append(out, s)
		return nil
	})
	return out, err
}

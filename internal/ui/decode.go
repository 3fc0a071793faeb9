package ui

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/me/shipdesk/internal/forms"
)

// decodeForm copies posted values into the exported fields of dst, keyed
// by their json tag. Nested structs use "parent.child" names. Unparseable
// numbers are left at zero and reported by validation.
func decodeForm(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("parse form: %w", err)
	}
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("decode form: want pointer to struct, got %T", dst)
	}
	decodeStruct(r, v.Elem(), "")
	return nil
}

func decodeStruct(r *http.Request, v reflect.Value, prefix string) {
	t := v.Type()
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		key := prefix + name
		fv := v.Field(i)

		switch fv.Kind() {
		case reflect.Struct:
			decodeStruct(r, fv, key+".")
			continue
		case reflect.Slice, reflect.Map:
			continue
		}

		raw, present := r.Form[key]
		if !present || len(raw) == 0 {
			continue
		}
		setScalar(fv, strings.TrimSpace(raw[0]))
	}
}

func setScalar(fv reflect.Value, s string) {
	if fv.Kind() == reflect.Pointer {
		if s == "" {
			fv.SetZero()
			return
		}
		p := reflect.New(fv.Type().Elem())
		setScalar(p.Elem(), s)
		fv.Set(p)
		return
	}
	switch fv.Kind() {
	case reflect.String:
		fv.SetString(s)
	case reflect.Int, reflect.Int32, reflect.Int64:
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			fv.SetInt(n)
		}
	case reflect.Bool:
		fv.SetBool(s == "on" || s == "true" || s == "1")
	}
}

// decodeGroups reads the menu group checkboxes named "groups.<key>".
func decodeGroups(r *http.Request, keys []string) map[string]bool {
	out := make(map[string]bool, len(keys))
	for _, k := range keys {
		out[k] = r.PostForm.Get("groups."+k) != ""
	}
	return out
}

// decodeItems reads parcel rows named "items.<n>.<field>" until a row is
// missing entirely.
func decodeItems(r *http.Request) []forms.ShippingItem {
	var items []forms.ShippingItem
	for n := 0; ; n++ {
		p := "items." + strconv.Itoa(n) + "."
		if _, ok := r.PostForm[p+"size_id"]; !ok {
			if _, ok := r.PostForm[p+"item_number"]; !ok {
				return items
			}
		}
		var it forms.ShippingItem
		decodeStructPrefixed(r, &it, p)
		items = append(items, it)
	}
}

func decodeStructPrefixed(r *http.Request, dst any, prefix string) {
	decodeStruct(r, reflect.ValueOf(dst).Elem(), prefix)
}

// formID parses an optional numeric id; empty means new.
func formID(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

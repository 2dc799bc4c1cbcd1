package helper

import (
	"fmt"
	"reflect"
	"strings"
)

// ValidateStructIsPopulated will check if any mandatory fields in cfg are missing.
// It uses struct tags to determine which fields are mandatory and the error text to fetch.
// The error returned is a list of the struct tags with key "errorTxt".
func ValidateStructIsPopulated(cfg interface{}) error {
	errs := make([]string, 0)
	GetStructErrorTxt4UnsetFields(cfg, &errs)
	if len(errs) > 0 {
		return fmt.Errorf("please supply values for %v", strings.Join(errs, ", "))
	}
	return nil
}

// GetStructErrorTxt4UnsetFields will reflect over struct i and append the errorTxt tag values of
// exported fields tagged mandatory:"yes" that are still their zero value.
// Nested structs are descended into.
func GetStructErrorTxt4UnsetFields(i interface{}, errTags *[]string) {
	val := reflect.ValueOf(i)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return
	}
	typ := val.Type()
	for idx := 0; idx < val.NumField(); idx++ { // for each field in the struct...
		sf := typ.Field(idx)
		if sf.PkgPath != "" { // if the field is unexported...
			continue
		}
		f := val.Field(idx)
		switch f.Kind() {
		case reflect.Struct: // descend into nested config...
			GetStructErrorTxt4UnsetFields(f.Interface(), errTags)
		default:
			if sf.Tag.Get("mandatory") == "yes" && f.IsZero() { // if the field is mandatory and unset...
				errTxt := sf.Tag.Get("errorTxt")
				if errTxt == "" {
					errTxt = sf.Name
				}
				*errTags = append(*errTags, errTxt)
			}
		}
	}
}

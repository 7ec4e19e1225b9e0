// Package model - Reflection-basierte Parameter-Auflistung
//
// Dieses Modul enthaelt die Reflection-Logik zum Auflisten der Variablen
// eines Layers anhand von `param`-Tags.
//
// Hauptkomponenten:
// - Parameters: Sammelt getaggte ml.Tensor-Felder rekursiv
// - ParameterCount: Summe der Elemente aller Parameter
//
// Nur getaggte Felder werden besucht. Ein leerer Tag fuegt keinen
// Namensteil hinzu, Views ohne Tag (z.B. Kernel-Views) werden uebersprungen.

package model

import (
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/tedll/tedll/logutil"
	"github.com/tedll/tedll/ml"
)

// Parameter ist eine benannte Variable eines Layers
type Parameter struct {
	Name   string
	Tensor ml.Tensor
}

var tensorType = reflect.TypeOf((*ml.Tensor)(nil)).Elem()

// Parameters gibt die Variablen von m in Feldreihenfolge zurueck
func Parameters(m any) []Parameter {
	var params []Parameter
	collect(reflect.ValueOf(m), nil, &params)
	return params
}

// ParameterCount gibt die Anzahl aller Elemente der Variablen von m zurueck
func ParameterCount(m any) int {
	var n int
	for _, p := range Parameters(m) {
		size := 1
		for _, d := range p.Tensor.Shape() {
			size *= d
		}
		n += size
	}

	return n
}

// collect besucht v rekursiv und sammelt getaggte Tensoren
func collect(v reflect.Value, names []string, params *[]Parameter) {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if !v.IsNil() {
			collect(v.Elem(), names, params)
		}
	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			collect(v.Index(i), append(slices.Clone(names), strconv.Itoa(i)), params)
		}
	case reflect.Struct:
		t := v.Type()
		for i := range t.NumField() {
			f := t.Field(i)
			tag, ok := f.Tag.Lookup("param")
			if !ok || !f.IsExported() {
				continue
			}

			// Kopie erstellen
			fieldNames := names
			if tag != "" {
				fieldNames = append(slices.Clone(names), tag)
			}

			vv := v.Field(i)
			if f.Type != tensorType {
				collect(vv, fieldNames, params)
				continue
			}

			if vv.IsNil() || len(fieldNames) == 0 {
				continue
			}

			tensor := vv.Interface().(ml.Tensor)
			name := strings.Join(fieldNames, ".")
			logutil.Trace("found parameter", "name", name, "shape", tensor.Shape())
			*params = append(*params, Parameter{Name: name, Tensor: tensor})
		}
	}
}

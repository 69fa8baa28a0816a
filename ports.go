// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cyclesim

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var signalType = reflect.TypeOf(Signal(0))

// Ports declares one signal for each tagged field of the struct pointed to by
// v and stores the handles in the fields. This is how component interfaces
// are declared: as plain structs of named signal handles.
//
// The field tag is `hw:"dir[,width[,name]]"`. dir is one of "in", "out" or
// "wire". If width is omitted, defaultWidth is used. By default, the signal
// name is the field name in lowercase. Fields must be of type Signal or
// arrays of Signal; array elements are named name0, name1, etc.
//
//	var p struct {
//		A   cyclesim.Signal    `hw:"in"`
//		Sel cyclesim.Signal    `hw:"in,1"`
//		Out [2]cyclesim.Signal `hw:"out,,y"`
//	}
//	err := c.Ports(&p, 8) // declares a, sel, y0 and y1
func (c *Component) Ports(v interface{}, defaultWidth int) error {
	pv := reflect.ValueOf(v)
	if pv.Kind() != reflect.Ptr || pv.Elem().Kind() != reflect.Struct {
		return c.d.fail(errors.Errorf("%s: Ports: expected pointer to struct, got %T", c.Path(), v))
	}
	e := pv.Elem()
	typ := e.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag, ok := f.Tag.Lookup("hw")
		if !ok {
			continue
		}
		if f.PkgPath != "" {
			return c.d.fail(errors.Errorf("%s: tagged field %q in %s is not exported", c.Path(), f.Name, typ.Name()))
		}
		tv := strings.Split(tag, ",")
		name := strings.ToLower(f.Name)
		width := defaultWidth
		if len(tv) > 3 {
			return c.d.fail(errors.Errorf("%s: unsupported tag %q for field %q in %s", c.Path(), tag, f.Name, typ.Name()))
		}
		if len(tv) == 3 && tv[2] != "" {
			name = tv[2]
		}
		if len(tv) >= 2 && tv[1] != "" {
			w, err := strconv.Atoi(tv[1])
			if err != nil {
				return c.d.fail(errors.Wrapf(err, "%s: invalid width in tag %q for field %q", c.Path(), tag, f.Name))
			}
			width = w
		}
		var dir Dir
		switch tv[0] {
		case "in":
			dir = DirIn
		case "out":
			dir = DirOut
		case "wire":
			dir = DirWire
		default:
			return c.d.fail(errors.Errorf("%s: unsupported tag %q for field %q in %s", c.Path(), tag, f.Name, typ.Name()))
		}

		fv := e.Field(i)
		switch {
		case f.Type == signalType:
			s, err := c.declare(name, dir, Bits(width))
			if err != nil {
				return err
			}
			fv.Set(reflect.ValueOf(s))
		case f.Type.Kind() == reflect.Array && f.Type.Elem() == signalType:
			for j := 0; j < fv.Len(); j++ {
				s, err := c.declare(name+strconv.Itoa(j), dir, Bits(width))
				if err != nil {
					return err
				}
				fv.Index(j).Set(reflect.ValueOf(s))
			}
		default:
			return c.d.fail(errors.Errorf("%s: unsupported type %v for field %q in %s", c.Path(), f.Type, f.Name, typ.Name()))
		}
	}
	return nil
}

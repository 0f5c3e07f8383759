// Package binder fills request structs from URL path parameters and query
// strings using gorilla/schema.
//
// Fields opt in with a tag naming the parameter:
//
//	type FilesRequest struct {
//		Provider    string `path:"provider"`
//		ProjectID   string `path:"project_id"`
//		AccessToken string `query:"access_token"`
//	}
//
//	r.Get("/drive/{provider}/{project_id}/filesystem", handler.Wrap(listFiles,
//		handler.WithBinders[FilesRequest](binder.Path(chi.URLParam), binder.Query()),
//	))
package binder

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gorilla/schema"
)

const (
	pathTag  = "path"
	queryTag = "query"
)

// Decoders cache struct metadata and are safe for concurrent use.
var (
	pathDecoder  = newDecoder(pathTag)
	queryDecoder = newDecoder(queryTag)
)

func newDecoder(tag string) *schema.Decoder {
	d := schema.NewDecoder()
	d.SetAliasTag(tag)
	d.IgnoreUnknownKeys(true)
	return d
}

func decode(d *schema.Decoder, sentinel error, v any, src map[string][]string) error {
	if err := checkTarget(v); err != nil {
		return err
	}
	if err := d.Decode(v, src); err != nil {
		var multi schema.MultiError
		if errors.As(err, &multi) {
			return fmt.Errorf("%w: %s", sentinel, multi.Error())
		}
		return fmt.Errorf("%w: %v", sentinel, err)
	}
	return nil
}

func checkTarget(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrInvalidTarget
	}
	return nil
}

// tagNames lists the parameter names a struct declares under tag.
func tagNames(v any, tag string) []string {
	rt := reflect.TypeOf(v).Elem()
	names := make([]string, 0, rt.NumField())
	for i := range rt.NumField() {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "" || name == "-" {
			continue
		}
		names = append(names, name)
	}
	return names
}

package paprika

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Kind identifies which payload shape an envelope's result holds.
type Kind int

// Result kinds, most specific first. decodeResult tries the shapes in
// this order.
const (
	KindUnknown Kind = iota
	KindToken
	KindBool
	KindRecipeEntries
	KindCategories
	KindRecipe
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case KindToken:
		return "token"
	case KindBool:
		return "bool"
	case KindRecipeEntries:
		return "recipe entries"
	case KindCategories:
		return "categories"
	case KindRecipe:
		return "recipe"
	default:
		return "unknown"
	}
}

// Result is the decoded payload of a response envelope. Exactly one of the
// payload fields is meaningful, selected by Kind.
type Result struct {
	Kind       Kind
	Token      Token
	Bool       bool
	Entries    []RecipeEntry
	Categories []Category
	Recipe     Recipe
}

type envelope struct {
	Result json.RawMessage `json:"result"`
}

// shape tries to read raw as one payload kind. ok is false when raw does
// not have that shape.
type shape struct {
	kind  Kind
	match func(raw json.RawMessage, res *Result) (ok bool)
}

// shapes lists every known payload, most specific first. A new endpoint's
// response shape is added here.
var shapes = []shape{
	{KindToken, matchToken},
	{KindBool, matchBool},
	{KindRecipeEntries, matchEntries},
	{KindCategories, matchCategories},
	{KindRecipe, matchRecipe},
}

var errNoShape = errors.New("result matches no known payload shape")

// decodeResult parses an envelope body. An empty array is ambiguous between
// the list kinds; it is resolved to expected when expected is a list kind
// and to KindRecipeEntries otherwise.
func decodeResult(body []byte, expected Kind) (*Result, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &DecodeError{Body: string(body), Err: ErrEmptyBody}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &DecodeError{Body: string(body), Err: err}
	}
	raw := bytes.TrimSpace(env.Result)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, &DecodeError{Body: string(body), Err: errors.New("envelope has no result")}
	}

	if isEmptyArray(raw) {
		res := &Result{Kind: KindRecipeEntries, Entries: []RecipeEntry{}}
		if expected == KindCategories {
			res = &Result{Kind: KindCategories, Categories: []Category{}}
		}
		return res, nil
	}

	for _, s := range shapes {
		res := &Result{Kind: s.kind}
		if s.match(raw, res) {
			return res, nil
		}
	}
	return nil, &DecodeError{Body: string(body), Err: errNoShape}
}

func isEmptyArray(raw json.RawMessage) bool {
	var items []json.RawMessage
	return raw[0] == '[' && json.Unmarshal(raw, &items) == nil && len(items) == 0
}

// objectFields splits a JSON object into its members. ok is false for
// anything that is not an object.
func objectFields(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, false
	}
	return fields, true
}

func isString(raw json.RawMessage) bool {
	var s string
	return len(raw) > 0 && raw[0] == '"' && json.Unmarshal(raw, &s) == nil
}

func matchToken(raw json.RawMessage, res *Result) bool {
	fields, ok := objectFields(raw)
	if !ok || len(fields) != 1 {
		return false
	}
	tok, ok := fields["token"]
	if !ok || !isString(tok) {
		return false
	}
	return json.Unmarshal(tok, &res.Token.Token) == nil
}

func matchBool(raw json.RawMessage, res *Result) bool {
	return json.Unmarshal(raw, &res.Bool) == nil && (raw[0] == 't' || raw[0] == 'f')
}

// arrayObjects splits a JSON array of objects. ok is false when raw is not
// an array or any element is not an object.
func arrayObjects(raw json.RawMessage) ([]map[string]json.RawMessage, bool) {
	if raw[0] != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	out := make([]map[string]json.RawMessage, 0, len(items))
	for _, item := range items {
		fields, ok := objectFields(bytes.TrimSpace(item))
		if !ok {
			return nil, false
		}
		out = append(out, fields)
	}
	return out, true
}

func matchEntries(raw json.RawMessage, res *Result) bool {
	items, ok := arrayObjects(raw)
	if !ok {
		return false
	}
	for _, fields := range items {
		if len(fields) != 2 || !isString(fields["uid"]) || !isString(fields["hash"]) {
			return false
		}
	}
	return json.Unmarshal(raw, &res.Entries) == nil
}

func matchCategories(raw json.RawMessage, res *Result) bool {
	items, ok := arrayObjects(raw)
	if !ok {
		return false
	}
	for _, fields := range items {
		if !isString(fields["uid"]) || !isString(fields["name"]) {
			return false
		}
		var order int
		if of, ok := fields["order_flag"]; !ok || json.Unmarshal(of, &order) != nil {
			return false
		}
		if p, ok := fields["parent_uid"]; ok && !isString(p) && string(bytes.TrimSpace(p)) != "null" {
			return false
		}
	}
	return json.Unmarshal(raw, &res.Categories) == nil
}

func matchRecipe(raw json.RawMessage, res *Result) bool {
	fields, ok := objectFields(raw)
	if !ok {
		return false
	}
	// Only the uid is required; every other field may be null or absent.
	if !isString(fields["uid"]) {
		return false
	}
	return json.Unmarshal(raw, &res.Recipe) == nil
}

// expect checks that res holds the kind an endpoint promised.
func expect(res *Result, endpoint string, want Kind) error {
	if res.Kind != want {
		return &ShapeError{Endpoint: endpoint, Expected: want, Got: res.Kind}
	}
	return nil
}

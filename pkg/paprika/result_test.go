package paprika

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeResult_Shapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Kind
	}{
		{"token", `{"result": {"token": "12345"}}`, KindToken},
		{"true", `{"result": true}`, KindBool},
		{"false", `{"result":false}`, KindBool},
		{"entries", `{"result":[{"uid":"a","hash":"1"},{"uid":"b","hash":"2"}]}`, KindRecipeEntries},
		{"categories", `{"result":[{"uid":"c1","order_flag":2,"name":"Dinner","parent_uid":null}]}`, KindCategories},
		{"categories with parent", `{"result":[{"uid":"c2","order_flag":0,"name":"Tacos","parent_uid":"c1"}]}`, KindCategories},
		{"categories without parent key", `{"result":[{"uid":"c3","order_flag":1,"name":"Soup"}]}`, KindCategories},
		{"recipe", `{"result":{"uid":"r1","name":"Soup","hash":"h"}}`, KindRecipe},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := decodeResult([]byte(tc.body), KindUnknown)
			require.NoError(t, err)
			assert.Equal(t, tc.want, res.Kind)
		})
	}
}

func TestDecodeResult_Payloads(t *testing.T) {
	res, err := decodeResult([]byte(`{"result": {"token": "12345"}}`), KindUnknown)
	require.NoError(t, err)
	assert.Equal(t, "12345", res.Token.Token)

	res, err = decodeResult([]byte(`{"result": true}`), KindUnknown)
	require.NoError(t, err)
	assert.True(t, res.Bool)

	res, err = decodeResult([]byte(`{"result":[{"uid":"a","hash":"1"}]}`), KindUnknown)
	require.NoError(t, err)
	assert.Equal(t, []RecipeEntry{{UID: "a", Hash: "1"}}, res.Entries)

	res, err = decodeResult([]byte(`{"result":[{"uid":"c2","order_flag":3,"name":"Tacos","parent_uid":"c1"}]}`), KindUnknown)
	require.NoError(t, err)
	require.Len(t, res.Categories, 1)
	assert.Equal(t, 3, res.Categories[0].OrderFlag)
	require.NotNil(t, res.Categories[0].ParentUID)
	assert.Equal(t, "c1", *res.Categories[0].ParentUID)

	res, err = decodeResult([]byte(`{"result":{"uid":"r1","name":null,"ingredients":null,"source_url":null,"categories":null,"rating":0}}`), KindRecipe)
	require.NoError(t, err)
	require.Equal(t, KindRecipe, res.Kind)
	assert.Equal(t, "r1", res.Recipe.UID)
	assert.Empty(t, res.Recipe.Name)
	assert.Empty(t, res.Recipe.Ingredients)
	assert.Nil(t, res.Recipe.SourceURL)

	res, err = decodeResult([]byte(`{"result":{"uid":"r2","directions":"Stir."}}`), KindRecipe)
	require.NoError(t, err)
	require.Equal(t, KindRecipe, res.Kind)
	assert.Empty(t, res.Recipe.Name)
	assert.Equal(t, "Stir.", res.Recipe.Directions)
}

func TestDecodeResult_TokenBeatsRecipe(t *testing.T) {
	// An object holding only a token is never read as a degenerate recipe.
	res, err := decodeResult([]byte(`{"result":{"token":"abc"}}`), KindRecipe)
	require.NoError(t, err)
	assert.Equal(t, KindToken, res.Kind)
}

func TestDecodeResult_EntryWithExtraFieldIsNotEntry(t *testing.T) {
	_, err := decodeResult([]byte(`{"result":[{"uid":"a","hash":"1","name":"x"}]}`), KindUnknown)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))
}

func TestDecodeResult_EmptyArrayFollowsExpectedKind(t *testing.T) {
	res, err := decodeResult([]byte(`{"result": []}`), KindRecipeEntries)
	require.NoError(t, err)
	assert.Equal(t, KindRecipeEntries, res.Kind)
	assert.NotNil(t, res.Entries)
	assert.Empty(t, res.Entries)

	res, err = decodeResult([]byte(`{"result": []}`), KindCategories)
	require.NoError(t, err)
	assert.Equal(t, KindCategories, res.Kind)
	assert.Empty(t, res.Categories)

	res, err = decodeResult([]byte(`{"result": []}`), KindUnknown)
	require.NoError(t, err)
	assert.Equal(t, KindRecipeEntries, res.Kind)
}

func TestDecodeResult_Failures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ``},
		{"whitespace", " \n"},
		{"not json", `<html>oops</html>`},
		{"no result", `{"error":{"message":"nope"}}`},
		{"null result", `{"result":null}`},
		{"number", `{"result":42}`},
		{"string", `{"result":"ok"}`},
		{"unknown object", `{"result":{"foo":1}}`},
		{"mixed array", `[{"uid":"a","hash":"1"}, 3]`},
		{"array of scalars", `{"result":[1,2,3]}`},
		{"recipe with wrong type", `{"result":{"uid":"r1","name":"x","rating":"five"}}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := decodeResult([]byte(tc.body), KindUnknown)
			require.Error(t, err)
			assert.Nil(t, res)

			var de *DecodeError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tc.body, de.Body)
			assert.True(t, errors.Is(err, ErrDecode))
			assert.False(t, errors.Is(err, ErrTransport))
		})
	}
}

func TestDecodeResult_EmptyBodyCause(t *testing.T) {
	_, err := decodeResult(nil, KindToken)
	assert.True(t, errors.Is(err, ErrEmptyBody))
}

func TestExpect(t *testing.T) {
	res := &Result{Kind: KindToken}
	assert.NoError(t, expect(res, EndpointLogin, KindToken))

	err := expect(res, "sync/recipe/1", KindRecipe)
	var se *ShapeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, KindRecipe, se.Expected)
	assert.Equal(t, KindToken, se.Got)
	assert.True(t, errors.Is(err, ErrUnexpectedShape))
	assert.Contains(t, err.Error(), "expected recipe result, got token")
}

package model_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/go-modelguard/internal/model"
)

func requireMissing(t *testing.T, err error, modelName, field string) *model.RequiredFieldMissingError {
	t.Helper()
	require.Error(t, err)

	var missing *model.RequiredFieldMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, modelName, missing.Model)
	assert.Equal(t, field, missing.Field)
	assert.True(t, errors.Is(err, model.ErrRequiredFieldMissing))
	assert.False(t, model.IsDefinitionError(err))
	return missing
}

func TestValidate_LoginRequest(t *testing.T) {
	t.Parallel()

	t.Run("password absent", func(t *testing.T) {
		t.Parallel()
		req := &loginRequest{Username: ptr("alice")}

		got, err := model.Validate(req)

		requireMissing(t, err, "LoginRequest", "password")
		assert.Nil(t, got)
		assert.EqualError(t, err, "LoginRequest: The mandatory field 'password' is not present in JSON")
	})

	t.Run("both present", func(t *testing.T) {
		t.Parallel()
		req := &loginRequest{Username: ptr("alice"), Password: ptr("secret")}

		got, err := model.Validate(req)

		require.NoError(t, err)
		assert.Same(t, req, got)
	})

	t.Run("empty string counts as present", func(t *testing.T) {
		t.Parallel()
		req := &loginRequest{Username: ptr(""), Password: ptr("")}

		_, err := model.Validate(req)

		require.NoError(t, err)
	})

	t.Run("first missing field wins", func(t *testing.T) {
		t.Parallel()
		_, err := model.Validate(&loginRequest{})

		requireMissing(t, err, "LoginRequest", "username")
	})
}

func TestValidate_NoRequiredFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input *optionalOnly
	}{
		{name: "all absent", input: &optionalOnly{}},
		{name: "empty collections", input: &optionalOnly{Tags: []string{}, Flags: map[string]bool{}}},
		{
			name: "all present",
			input: &optionalOnly{
				Note:  ptr("n"),
				Tags:  []string{"a", "b"},
				Flags: map[string]bool{"x": true},
				Child: &userModel{ID: ptr("u1")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := model.Validate(tt.input)

			require.NoError(t, err)
			assert.Same(t, tt.input, got)
		})
	}
}

func TestValidate_OptionalNestedModelIsStillChecked(t *testing.T) {
	t.Parallel()

	_, err := model.Validate(&optionalOnly{Child: &userModel{Name: ptr("bob")}})

	requireMissing(t, err, "UserModel", "id")
}

func TestValidate_ExternalName(t *testing.T) {
	t.Parallel()

	_, err := model.Validate(&sendKeys{Text: ptr("hello")})

	missing := requireMissing(t, err, "ElementRef", "element-6066-11e4-a52e-4f735466cecf")
	assert.Equal(t, "SendKeysRequest", missing.Instance)
	assert.NotContains(t, err.Error(), "elementId")
}

func TestValidate_InheritedFields(t *testing.T) {
	t.Parallel()

	t.Run("own field is checked before inherited ones", func(t *testing.T) {
		t.Parallel()
		_, err := model.Validate(&sendKeys{})

		requireMissing(t, err, "SendKeysRequest", "text")
	})

	t.Run("inherited required field", func(t *testing.T) {
		t.Parallel()
		req := &sendKeys{Text: ptr("abc")}

		_, err := model.Validate(req)

		requireMissing(t, err, "ElementRef", "element-6066-11e4-a52e-4f735466cecf")
	})

	t.Run("all present", func(t *testing.T) {
		t.Parallel()
		req := &sendKeys{elementRef: elementRef{ElementID: ptr("e1")}, Text: ptr("abc")}

		got, err := model.Validate(req)

		require.NoError(t, err)
		assert.Same(t, req, got)
	})
}

func TestValidate_NestedModel(t *testing.T) {
	t.Parallel()

	t.Run("inner failure propagates unchanged", func(t *testing.T) {
		t.Parallel()
		_, err := model.Validate(&session{User: &userModel{}})

		requireMissing(t, err, "UserModel", "id")
		assert.NotContains(t, err.Error(), "'user'")
	})

	t.Run("absent nested model", func(t *testing.T) {
		t.Parallel()
		_, err := model.Validate(&session{})

		requireMissing(t, err, "Session", "user")
	})

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		_, err := model.Validate(&session{User: &userModel{ID: ptr("42")}})

		require.NoError(t, err)
	})
}

func TestValidate_Sequence(t *testing.T) {
	t.Parallel()

	t.Run("first invalid element stops the walk", func(t *testing.T) {
		t.Parallel()
		visits := make([]int, 4)
		items := []*probe{
			{ID: ptr("0"), visits: &visits[0]},
			{ID: ptr("1"), visits: &visits[1]},
			{visits: &visits[2]},
			{visits: &visits[3]},
		}

		_, err := model.Validate(&batch{Items: items})

		requireMissing(t, err, "Probe", "id")
		assert.Equal(t, []int{1, 1, 1, 0}, visits)
	})

	t.Run("empty sequence is present", func(t *testing.T) {
		t.Parallel()
		_, err := model.Validate(&batch{Items: []*probe{}})

		require.NoError(t, err)
	})

	t.Run("absent required sequence", func(t *testing.T) {
		t.Parallel()
		_, err := model.Validate(&batch{})

		requireMissing(t, err, "Batch", "items")
	})

	t.Run("nil elements and scalars are ignored", func(t *testing.T) {
		t.Parallel()
		b := &batch{
			Items: []*probe{nil, {ID: ptr("x")}},
			Mixed: []any{1, "two", nil, []string{"nested"}},
		}

		_, err := model.Validate(b)

		require.NoError(t, err)
	})

	t.Run("model element among scalars", func(t *testing.T) {
		t.Parallel()
		b := &batch{
			Items: []*probe{},
			Mixed: []any{"a", &userModel{}},
		}

		_, err := model.Validate(b)

		requireMissing(t, err, "UserModel", "id")
	})
}

func TestValidate_Idempotent(t *testing.T) {
	t.Parallel()

	req := &session{User: &userModel{ID: ptr("7"), Name: ptr("n")}}

	first, err := model.Validate(req)
	require.NoError(t, err)
	second, err := model.Validate(req)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, "7", *req.User.ID)
	assert.Equal(t, "n", *req.User.Name)
}

func TestValidate_ConcurrentCallsOnSharedGraph(t *testing.T) {
	t.Parallel()

	req := &sendKeys{Text: ptr("abc")}

	var wg sync.WaitGroup
	errs := make([]error, 16)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = model.Validate(req)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		requireMissing(t, err, "ElementRef", "element-6066-11e4-a52e-4f735466cecf")
	}
}

func TestValidate_DefinitionErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   model.Model
		wantMsg string
	}{
		{name: "nil interface", input: nil, wantMsg: "nil model"},
		{name: "typed nil pointer", input: (*loginRequest)(nil), wantMsg: "nil model"},
		{name: "missing descriptor", input: &untyped{}, wantMsg: "no type descriptor"},
		{name: "accessor for another type", input: &foreign{}, wantMsg: "not readable"},
		{name: "required plain field", input: &flagged{}, wantMsg: "never absent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := model.NewValidator().Check(tt.input)

			require.Error(t, err)
			assert.True(t, model.IsDefinitionError(err))
			assert.True(t, errors.Is(err, model.ErrModelDefinition))
			assert.False(t, model.IsRequiredFieldMissing(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidate_DefinitionErrorIsNotWrapped(t *testing.T) {
	t.Parallel()

	_, err := model.Validate(&optionalOnly{Child: (*userModel)(nil)})
	require.NoError(t, err)

	holder := &batch{Items: []*probe{}, Mixed: []any{&foreign{}}}
	_, err = model.Validate(holder)

	var def *model.DefinitionError
	require.ErrorAs(t, err, &def)
	assert.Equal(t, "Foreign", def.Model)
	assert.Equal(t, "value", def.Field)
	assert.NotNil(t, def.StackTrace())
}

func TestValidate_MaxDepth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []model.Option
		nodes   int
		wantErr bool
	}{
		{name: "nesting at the limit", opts: []model.Option{model.WithMaxDepth(3)}, nodes: 4},
		{name: "one level past the limit", opts: []model.Option{model.WithMaxDepth(3)}, nodes: 5, wantErr: true},
		{name: "zero falls back to the default", opts: []model.Option{model.WithMaxDepth(0)}, nodes: model.DefaultMaxDepth + 1},
		{name: "zero keeps the default limit", opts: []model.Option{model.WithMaxDepth(0)}, nodes: model.DefaultMaxDepth + 2, wantErr: true},
		{name: "negative falls back to the default", opts: []model.Option{model.WithMaxDepth(-1)}, nodes: model.DefaultMaxDepth + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := model.NewValidator(tt.opts...).Check(chain(tt.nodes))

			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, model.IsDefinitionError(err))
			assert.Contains(t, err.Error(), "nested deeper than")
		})
	}
}

func TestValidate_Cycles(t *testing.T) {
	t.Parallel()

	t.Run("self reference terminates", func(t *testing.T) {
		t.Parallel()
		n := &node{Name: ptr("a")}
		n.Next = n

		_, err := model.Validate(n)

		require.NoError(t, err)
	})

	t.Run("cycle with a violation still reports it", func(t *testing.T) {
		t.Parallel()
		a := &node{Name: ptr("a")}
		b := &node{}
		a.Next, b.Next = b, a

		_, err := model.Validate(a)

		requireMissing(t, err, "Node", "name")
	})

	t.Run("without detection the depth limit stops the walk", func(t *testing.T) {
		t.Parallel()
		n := &node{Name: ptr("a")}
		n.Next = n
		v := model.NewValidator(model.WithCycleDetection(false), model.WithMaxDepth(5))

		_, err := model.ValidateWith(v, n)

		require.Error(t, err)
		assert.True(t, model.IsDefinitionError(err))
		assert.Contains(t, err.Error(), "deeper than 5")
	})

	t.Run("shared instance on distinct paths is visited on each", func(t *testing.T) {
		t.Parallel()
		visits := 0
		shared := &probe{ID: ptr("s"), visits: &visits}

		_, err := model.Validate(&batch{Items: []*probe{shared, shared, shared}})

		require.NoError(t, err)
		assert.Equal(t, 3, visits)
	})
}

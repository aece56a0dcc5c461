package model_test

import (
	"github.com/deppfellow/go-modelguard/internal/model"
)

func ptr[T any](v T) *T {
	return &v
}

// Hand-written descriptor tables.

type loginRequest struct {
	Username *string
	Password *string
}

var loginType = model.NewType("LoginRequest", nil,
	model.ScalarField("username", func(r *loginRequest) *string { return r.Username }, model.Required()),
	model.ScalarField("password", func(r *loginRequest) *string { return r.Password }, model.Required()),
)

func (*loginRequest) ModelType() *model.Type { return loginType }

type optionalOnly struct {
	Note  *string
	Tags  []string
	Flags map[string]bool
	Child *userModel
}

var optionalOnlyType = model.NewType("OptionalOnly", nil,
	model.ScalarField("note", func(r *optionalOnly) *string { return r.Note }),
	model.SliceField("tags", func(r *optionalOnly) []string { return r.Tags }),
	model.MapField("flags", func(r *optionalOnly) map[string]bool { return r.Flags }),
	model.ModelField("child", func(r *optionalOnly) *userModel { return r.Child }),
)

func (*optionalOnly) ModelType() *model.Type { return optionalOnlyType }

type userModel struct {
	ID   *string
	Name *string
}

var userType = model.NewType("UserModel", nil,
	model.ScalarField("id", func(u *userModel) *string { return u.ID }, model.Required()),
	model.ScalarField("name", func(u *userModel) *string { return u.Name }),
)

func (*userModel) ModelType() *model.Type { return userType }

type session struct {
	User *userModel
}

var sessionType = model.NewType("Session", nil,
	model.ModelField("user", func(s *session) *userModel { return s.User }, model.Required()),
)

func (*session) ModelType() *model.Type { return sessionType }

// Inheritance through an interface that descendants satisfy by embedding.

type elementRef struct {
	ElementID *string
}

type elementHolder interface {
	element() *elementRef
}

func (e *elementRef) element() *elementRef { return e }

var elementRefType = model.NewType("ElementRef", nil,
	model.ScalarField("elementId", func(h elementHolder) *string { return h.element().ElementID },
		model.Required(), model.JSONName("element-6066-11e4-a52e-4f735466cecf")),
)

func (*elementRef) ModelType() *model.Type { return elementRefType }

type sendKeys struct {
	elementRef
	Text    *string
	Replace bool
}

var sendKeysType = model.NewType("SendKeysRequest", elementRefType,
	model.ScalarField("text", func(r *sendKeys) *string { return r.Text }, model.Required()),
	model.PlainField("replace", func(r *sendKeys) bool { return r.Replace }),
)

func (*sendKeys) ModelType() *model.Type { return sendKeysType }

// Sequences, with a probe counting how many elements were entered.

type probe struct {
	ID     *string
	visits *int
}

var probeType = model.NewType("Probe", nil,
	model.NewField("id", func(m model.Model) (model.Value, error) {
		p := m.(*probe)
		if p.visits != nil {
			*p.visits++
		}
		return model.Ptr(p.ID), nil
	}, model.Required()),
)

func (*probe) ModelType() *model.Type { return probeType }

type batch struct {
	Items []*probe
	Mixed []any
}

var batchType = model.NewType("Batch", nil,
	model.ModelSliceField("items", func(b *batch) []*probe { return b.Items }, model.Required()),
	model.NewField("mixed", func(m model.Model) (model.Value, error) {
		b := m.(*batch)
		if b.Mixed == nil {
			return model.Absent(), nil
		}
		items := make([]model.Value, 0, len(b.Mixed))
		for _, v := range b.Mixed {
			if mm, ok := v.(model.Model); ok {
				items = append(items, model.Ref(mm))
				continue
			}
			items = append(items, model.Scalar(v))
		}
		return model.Seq(items...), nil
	}),
)

func (*batch) ModelType() *model.Type { return batchType }

// Self-referencing graph.

type node struct {
	Name *string
	Next *node
}

var nodeType = model.NewType("Node", nil,
	model.ScalarField("name", func(n *node) *string { return n.Name }, model.Required()),
	model.ModelField("next", func(n *node) *node { return n.Next }),
)

func (*node) ModelType() *model.Type { return nodeType }

// Broken definitions.

type untyped struct{}

func (*untyped) ModelType() *model.Type { return nil }

type foreign struct {
	Value *string
}

// foreignType reads its field through the wrong concrete type.
var foreignType = model.NewType("Foreign", nil,
	model.ScalarField("value", func(u *userModel) *string { return u.ID }, model.Required()),
)

func (*foreign) ModelType() *model.Type { return foreignType }

type flagged struct {
	Flag bool
}

// flaggedType marks a field that can never be absent as required.
var flaggedType = model.NewType("Flagged", nil,
	model.PlainField("flag", func(f *flagged) bool { return f.Flag }, model.Required()),
)

func (*flagged) ModelType() *model.Type { return flaggedType }

// chain links n nodes through Next.
func chain(n int) *node {
	var head *node
	for i := 0; i < n; i++ {
		head = &node{Name: ptr("n"), Next: head}
	}
	return head
}

// Tag-described models.

type Account struct {
	model.Base
	ID    *string `json:"id" model:"required"`
	Email *string `json:"email_address" model:"required"`
	Note  string  `json:"note"`
}

var accountType = model.MustDescribe[Account](nil)

func (*Account) ModelType() *model.Type { return accountType }

type AdminAccount struct {
	Account
	Role   *string  `json:"role" model:"required"`
	Scopes []string `json:"scopes"`
}

var adminAccountType = model.MustDescribe[AdminAccount](accountType)

func (*AdminAccount) ModelType() *model.Type { return adminAccountType }

type Audit struct {
	Owner   Account    `json:"owner"`
	Members []*Account `json:"members" model:"required"`
	Extra   any        `json:"extra"`
	Skipped *string    `json:"-" model:"required"`
}

var auditType = model.MustDescribe[Audit](nil)

func (*Audit) ModelType() *model.Type { return auditType }

// Package api holds the request models accepted by the HTTP API and the CLI.
//
// Every model implements model.Model, so a decoded payload can be checked for
// missing mandatory fields before it reaches a service. Some descriptor tables are
// written by hand, the rest are derived from struct tags.
package api

import (
	"github.com/deppfellow/go-modelguard/internal/model"
)

// WebElementKey is the W3C JSON key that carries an element reference.
const WebElementKey = "element-6066-11e4-a52e-4f735466cecf"

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

var loginRequestType = model.NewType("LoginRequest", nil,
	model.ScalarField("username", func(r *LoginRequest) *string { return r.Username }, model.Required()),
	model.ScalarField("password", func(r *LoginRequest) *string { return r.Password }, model.Required()),
)

func (*LoginRequest) ModelType() *model.Type { return loginRequestType }

// UserModel identifies the user a session belongs to.
type UserModel struct {
	model.Base
	ID   *string `json:"id" model:"required"`
	Name *string `json:"name,omitempty"`
}

var userModelType = model.MustDescribe[UserModel](nil)

func (*UserModel) ModelType() *model.Type { return userModelType }

// Session is the body of POST /session.
type Session struct {
	model.Base
	User         *UserModel     `json:"user" model:"required"`
	Capabilities map[string]any `json:"capabilities,omitempty"`
}

var sessionType = model.MustDescribe[Session](nil)

func (*Session) ModelType() *model.Type { return sessionType }

// ElementRef is the ancestor of every request that targets a single element.
type ElementRef struct {
	ElementID *string `json:"element-6066-11e4-a52e-4f735466cecf"`
}

// elementCarrier is satisfied by ElementRef and by every model embedding it.
type elementCarrier interface {
	elementRef() *ElementRef
}

func (e *ElementRef) elementRef() *ElementRef { return e }

var elementRefType = model.NewType("ElementRef", nil,
	model.ScalarField("elementId", func(c elementCarrier) *string { return c.elementRef().ElementID },
		model.Required(), model.JSONName(WebElementKey)),
)

func (*ElementRef) ModelType() *model.Type { return elementRefType }

// SendKeysRequest is the body of POST /session/:id/keys.
type SendKeysRequest struct {
	ElementRef
	Text    *string `json:"text"`
	Replace *bool   `json:"replace,omitempty"`
}

var sendKeysRequestType = model.NewType("SendKeysRequest", elementRefType,
	model.ScalarField("text", func(r *SendKeysRequest) *string { return r.Text }, model.Required()),
	model.ScalarField("replace", func(r *SendKeysRequest) *bool { return r.Replace }),
)

func (*SendKeysRequest) ModelType() *model.Type { return sendKeysRequestType }

// ActionsRequest is the body of POST /session/:id/actions.
type ActionsRequest struct {
	model.Base
	Actions []*InputSource `json:"actions" model:"required" validate:"dive"`
}

var actionsRequestType = model.MustDescribe[ActionsRequest](nil)

func (*ActionsRequest) ModelType() *model.Type { return actionsRequestType }

// InputSource is one virtual input device and its action ticks.
type InputSource struct {
	model.Base
	Type       *string            `json:"type" model:"required" validate:"omitempty,oneof=none key pointer wheel"`
	ID         *string            `json:"id" model:"required"`
	Parameters *PointerParameters `json:"parameters,omitempty" validate:"omitempty"`
	Actions    []map[string]any   `json:"actions,omitempty"`
}

var inputSourceType = model.MustDescribe[InputSource](nil)

func (*InputSource) ModelType() *model.Type { return inputSourceType }

// PointerParameters is only sent for sources of type "pointer".
type PointerParameters struct {
	model.Base
	PointerType *string `json:"pointerType" model:"required" validate:"omitempty,oneof=mouse pen touch"`
}

var pointerParametersType = model.MustDescribe[PointerParameters](nil)

func (*PointerParameters) ModelType() *model.Type { return pointerParametersType }

package registration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ukaji3/novembroazul-go/pkg/novembro/dom"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/validation"
)

// Form page defaults.
const (
	DefaultFormEndpoint  = "/api/cadastro"
	DefaultRedirectURL   = "./index.html"
	DefaultRedirectDelay = 2 * time.Second
)

// FormMessageID is the id of the form's status region.
const FormMessageID = "form-message"

// Form status texts.
const (
	SubmitErrorFallback   = "Erro ao enviar cadastro."
	ConnectionErrorPrefix = "Erro de conexão: "
)

// Form field ids, named after the JSON keys they are posted as.
const (
	FieldName          = "nome"
	FieldEmail         = "email"
	FieldAge           = "idade"
	FieldCPF           = "cpf"
	FieldHealthCard    = "cartao_sus"
	FieldFamilyHistory = "historico_familiar"
)

// FormFields lists every input of the registration form.
var FormFields = []string{FieldName, FieldEmail, FieldAge, FieldCPF, FieldHealthCard, FieldFamilyHistory}

// valueAttr holds an input's current value.
const valueAttr = "value"

// message region colors: background, text, border.
var (
	successColors = [3]string{"#d4edda", "#155724", "1px solid #c3e6cb"}
	errorColors   = [3]string{"#f8d7da", "#721c24", "1px solid #f5c6cb"}
)

// FormResult is the outcome of one submit.
type FormResult struct {
	Success bool
	Message string
	// Sent reports whether the submission reached the network.
	Sent bool
}

// Form is the registration page controller. It checks the inputs with the
// shared rule set, posts them and reports through a polite live region.
type Form struct {
	doc     *dom.Document
	message dom.LiveRegion

	// Endpoint is the registration URL.
	Endpoint   string
	HTTPClient *http.Client
	// RedirectURL is opened RedirectDelay after a stored registration.
	RedirectURL   string
	RedirectDelay time.Duration
	// Redirect navigates to a URL. Nil disables the redirect.
	Redirect func(url string)
	// Schedule runs fn after d. It defaults to time.AfterFunc.
	Schedule func(d time.Duration, fn func())
}

// NewForm wires the controller to doc and posts to endpoint.
func NewForm(doc *dom.Document, endpoint string) *Form {
	if endpoint == "" {
		endpoint = DefaultFormEndpoint
	}
	region := dom.NewLiveRegion(doc.Element(FormMessageID))
	region.Node.SetStyle("display", "none")

	return &Form{
		doc:           doc,
		message:       region,
		Endpoint:      endpoint,
		HTTPClient:    http.DefaultClient,
		RedirectURL:   DefaultRedirectURL,
		RedirectDelay: DefaultRedirectDelay,
		Schedule: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
	}
}

// SetField sets an input's value.
func (f *Form) SetField(id, value string) {
	f.doc.Element(id).SetAttribute(valueAttr, value)
}

// Field returns an input's value.
func (f *Form) Field(id string) string {
	v, _ := f.doc.Element(id).Attribute(valueAttr)
	return v
}

// Reset clears every input.
func (f *Form) Reset() {
	for _, id := range FormFields {
		f.doc.Element(id).RemoveAttribute(valueAttr)
	}
}

// Message returns the status region text.
func (f *Form) Message() string {
	return f.message.Node.Text()
}

// Submission collects the inputs.
func (f *Form) Submission() validation.Submission {
	return validation.Submission{
		Name:          f.Field(FieldName),
		Email:         f.Field(FieldEmail),
		Age:           validation.Age(f.Field(FieldAge)),
		CPF:           f.Field(FieldCPF),
		HealthCardID:  f.Field(FieldHealthCard),
		FamilyHistory: f.Field(FieldFamilyHistory),
	}
}

// Submit validates the inputs and posts them. A failed rule is shown without
// a request. On success the form is cleared and the redirect is scheduled.
func (f *Form) Submit(ctx context.Context) FormResult {
	sub := f.Submission()
	if v := validation.First(sub); v != nil {
		return f.show(FormResult{Message: v.Message})
	}

	res := f.post(ctx, sub)
	res.Sent = true
	f.show(res)
	if res.Success {
		f.Reset()
		if f.Redirect != nil && f.Schedule != nil {
			target, redirect := f.RedirectURL, f.Redirect
			f.Schedule(f.RedirectDelay, func() { redirect(target) })
		}
	}
	return res
}

func (f *Form) post(ctx context.Context, sub validation.Submission) FormResult {
	body, err := json.Marshal(sub)
	if err != nil {
		return FormResult{Message: ConnectionErrorPrefix + err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.Endpoint, bytes.NewReader(body))
	if err != nil {
		return FormResult{Message: ConnectionErrorPrefix + err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	hc := f.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return FormResult{Message: ConnectionErrorPrefix + err.Error()}
	}
	defer resp.Body.Close()

	var reply struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return FormResult{Message: ConnectionErrorPrefix + fmt.Sprintf("resposta inválida (%d): %v", resp.StatusCode, err)}
	}

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 && reply.Success {
		return FormResult{Success: true, Message: reply.Message}
	}
	if reply.Error != "" {
		return FormResult{Message: reply.Error}
	}
	return FormResult{Message: SubmitErrorFallback}
}

func (f *Form) show(res FormResult) FormResult {
	colors := errorColors
	if res.Success {
		colors = successColors
	}
	node := f.message.Node
	f.message.Announce(res.Message)
	node.SetStyle("background-color", colors[0])
	node.SetStyle("color", colors[1])
	node.SetStyle("border", colors[2])
	node.SetStyle("display", "block")
	return res
}

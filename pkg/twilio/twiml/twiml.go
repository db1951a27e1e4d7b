// Package twiml builds TwiML documents, the XML replies that tell Twilio
// what to do with a call or message.
//
//	response := twiml.NewResponse()
//	gather := response.Gather(twiml.A("numDigits", 1), twiml.A("action", "/menu"))
//	gather.Say("Press 1 for sales.", twiml.A("voice", "woman"))
//	response.Hangup()
//
//	fmt.Fprint(w, response)
package twiml

import (
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ContentType is the media type of a rendered document.
const ContentType = "application/xml; charset=utf-8"

// Attr is a verb attribute.
type Attr struct {
	Name  string
	Value string
}

// A builds an attribute. Booleans render as "true"/"false"; other values
// use their default format.
func A(name string, value any) Attr {
	switch v := value.(type) {
	case string:
		return Attr{Name: name, Value: v}
	case bool:
		if v {
			return Attr{Name: name, Value: "true"}
		}

		return Attr{Name: name, Value: "false"}
	default:
		return Attr{Name: name, Value: fmt.Sprint(v)}
	}
}

// Element is a verb or noun of a TwiML document. Attributes and children
// render in the order they were added.
type Element struct {
	name     string
	text     string
	attrs    []Attr
	children []*Element
}

// NewResponse creates the root <Response> element.
func NewResponse(attrs ...Attr) *Element {
	return &Element{name: "Response", attrs: attrs}
}

// Name returns the element name.
func (e *Element) Name() string {
	return e.name
}

// Add appends a child verb and returns it so nested verbs can be added.
// The first letter of verb is upper-cased. text may contain entities that
// are already escaped; they are not escaped twice.
func (e *Element) Add(verb, text string, attrs ...Attr) *Element {
	child := &Element{
		name:  capitalize(verb),
		text:  html.UnescapeString(text),
		attrs: attrs,
	}

	e.children = append(e.children, child)

	return child
}

// Say reads text aloud.
func (e *Element) Say(text string, attrs ...Attr) *Element {
	return e.Add("Say", text, attrs...)
}

// Play plays the audio file at url.
func (e *Element) Play(url string, attrs ...Attr) *Element {
	return e.Add("Play", url, attrs...)
}

// Gather collects digits. Nest Say or Play in the returned element.
func (e *Element) Gather(attrs ...Attr) *Element {
	return e.Add("Gather", "", attrs...)
}

// Record records the caller.
func (e *Element) Record(attrs ...Attr) *Element {
	return e.Add("Record", "", attrs...)
}

// Sms sends a text message during a call.
func (e *Element) Sms(body string, attrs ...Attr) *Element {
	return e.Add("Sms", body, attrs...)
}

// Dial connects the call to number, or to the nouns nested in the returned
// element when number is empty.
func (e *Element) Dial(number string, attrs ...Attr) *Element {
	return e.Add("Dial", number, attrs...)
}

// Number is a phone number noun nested in Dial.
func (e *Element) Number(number string, attrs ...Attr) *Element {
	return e.Add("Number", number, attrs...)
}

// Client is a Twilio Client noun nested in Dial.
func (e *Element) Client(name string, attrs ...Attr) *Element {
	return e.Add("Client", name, attrs...)
}

// Conference is a conference room noun nested in Dial.
func (e *Element) Conference(room string, attrs ...Attr) *Element {
	return e.Add("Conference", room, attrs...)
}

// Redirect transfers control to the TwiML at url.
func (e *Element) Redirect(url string, attrs ...Attr) *Element {
	return e.Add("Redirect", url, attrs...)
}

// Pause waits silently.
func (e *Element) Pause(attrs ...Attr) *Element {
	return e.Add("Pause", "", attrs...)
}

// Reject refuses an incoming call.
func (e *Element) Reject(attrs ...Attr) *Element {
	return e.Add("Reject", "", attrs...)
}

// Hangup ends the call.
func (e *Element) Hangup() *Element {
	return e.Add("Hangup", "")
}

// String renders the element as a complete XML document.
func (e *Element) String() string {
	var b strings.Builder

	_, _ = e.WriteTo(&b)

	return b.String()
}

// WriteTo writes the element as a complete XML document.
func (e *Element) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder

	b.WriteString(xml.Header)
	e.render(&b)
	b.WriteString("\n")

	n, err := io.WriteString(w, b.String())
	if err != nil {
		return int64(n), fmt.Errorf("writing TwiML: %w", err)
	}

	return int64(n), nil
}

func (e *Element) render(b *strings.Builder) {
	b.WriteString("<")
	b.WriteString(e.name)

	for _, attr := range e.attrs {
		b.WriteString(" ")
		b.WriteString(attr.Name)
		b.WriteString(`="`)
		escape(b, attr.Value)
		b.WriteString(`"`)
	}

	if e.text == "" && len(e.children) == 0 {
		b.WriteString("/>")

		return
	}

	b.WriteString(">")
	escape(b, e.text)

	for _, child := range e.children {
		child.render(b)
	}

	b.WriteString("</")
	b.WriteString(e.name)
	b.WriteString(">")
}

func escape(b *strings.Builder, s string) {
	_ = xml.EscapeText(b, []byte(s))
}

func capitalize(verb string) string {
	r, size := utf8.DecodeRuneInString(verb)
	if r == utf8.RuneError {
		return verb
	}

	return string(unicode.ToUpper(r)) + verb[size:]
}

// Package router holds the message routing rule table: the thread-safe
// store deciding which locally-attached endpoints are eligible to
// receive an in-flight message.
package router

import (
	"strings"

	"github.com/pkg/errors"
)

// EndpointID identifies a locally-attached bus endpoint.  The string
// ordering gives the table a stable traversal order.
type EndpointID string

// Message is the view of an in-flight message the rule table matches
// against.  The dispatch layer owns the real message; only these
// attributes participate in routing decisions.
type Message interface {
	Type() string
	Interface() string
	Member() string
	Path() string
	Sender() string
	Destination() string
}

// Rule is an immutable match predicate over message attributes.  An
// empty field matches any value of that attribute.
type Rule struct {
	Type        string
	Iface       string
	Member      string
	Path        string
	Sender      string
	Destination string
}

// Match reports whether msg satisfies every non-empty field of the
// rule.
func (r Rule) Match(msg Message) bool {
	if r.Type != "" && r.Type != msg.Type() {
		return false
	}
	if r.Iface != "" && r.Iface != msg.Interface() {
		return false
	}
	if r.Member != "" && r.Member != msg.Member() {
		return false
	}
	if r.Path != "" && r.Path != msg.Path() {
		return false
	}
	if r.Sender != "" && r.Sender != msg.Sender() {
		return false
	}
	if r.Destination != "" && r.Destination != msg.Destination() {
		return false
	}
	return true
}

// String renders the rule back into match-rule text form.
func (r Rule) String() string {
	var parts []string
	appendPart := func(key, val string) {
		if val != "" {
			parts = append(parts, key+"='"+val+"'")
		}
	}
	appendPart("type", r.Type)
	appendPart("interface", r.Iface)
	appendPart("member", r.Member)
	appendPart("path", r.Path)
	appendPart("sender", r.Sender)
	appendPart("destination", r.Destination)
	return strings.Join(parts, ",")
}

// ParseRule parses match-rule text of the form
//
//	key='value',key='value',...
//
// as rules arrive in AddMatch calls.  Recognized keys are type,
// interface, member, path, sender, and destination.  Unknown keys and
// malformed quoting are rejected.
func ParseRule(spec string) (Rule, error) {
	var r Rule
	rest := spec
	for rest != "" {
		eq := strings.IndexByte(rest, '=')
		if eq < 0 {
			return Rule{}, errors.Errorf("match rule: missing '=' in %q", rest)
		}
		key := strings.TrimSpace(rest[:eq])
		rest = rest[eq+1:]
		if len(rest) < 2 || rest[0] != '\'' {
			return Rule{}, errors.Errorf("match rule: value for %q not quoted", key)
		}
		end := strings.IndexByte(rest[1:], '\'')
		if end < 0 {
			return Rule{}, errors.Errorf("match rule: unterminated value for %q", key)
		}
		val := rest[1 : 1+end]
		rest = rest[end+2:]
		if rest != "" {
			if rest[0] != ',' {
				return Rule{}, errors.Errorf("match rule: expected ',' after %q", key)
			}
			rest = rest[1:]
			if rest == "" {
				return Rule{}, errors.New("match rule: trailing ','")
			}
		}

		switch key {
		case "type":
			if val != "signal" && val != "method_call" && val != "method_return" && val != "error" {
				return Rule{}, errors.Errorf("match rule: invalid message type %q", val)
			}
			r.Type = val
		case "interface":
			r.Iface = val
		case "member":
			r.Member = val
		case "path":
			r.Path = val
		case "sender":
			r.Sender = val
		case "destination":
			r.Destination = val
		default:
			return Rule{}, errors.Errorf("match rule: unknown key %q", key)
		}
	}
	return r, nil
}

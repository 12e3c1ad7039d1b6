package siteconf

import (
	"bytes"
	"encoding/json"

	"github.com/olimci/shiori/pkg/config"
)

// Rewrites encodes as a JSON object whose keys keep the rule order.
type Rewrites []config.Rewrite

func (r Rewrites) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, rule := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		from, err := json.Marshal(rule.From)
		if err != nil {
			return nil, err
		}
		to, err := json.Marshal(rule.To)
		if err != nil {
			return nil, err
		}
		buf.Write(from)
		buf.WriteByte(':')
		buf.Write(to)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// SocialIcon is a named theme icon, or inline SVG markup when SVG is set.
type SocialIcon struct {
	Name string
	SVG  string
}

func (i SocialIcon) MarshalJSON() ([]byte, error) {
	if i.SVG != "" {
		return json.Marshal(struct {
			SVG string `json:"svg"`
		}{i.SVG})
	}
	return json.Marshal(i.Name)
}

// AllowedHosts encodes as true when every host is allowed, else as the host list.
type AllowedHosts struct {
	All   bool
	Hosts []string
}

func (a AllowedHosts) MarshalJSON() ([]byte, error) {
	if a.All {
		return []byte("true"), nil
	}
	if a.Hosts == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a.Hosts)
}

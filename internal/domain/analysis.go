package domain

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Skill is one category/details pair reported by the analyzer.
type Skill struct {
	Category string `json:"category"`
	Details  string `json:"details"`
}

// Analysis is the structured scoring object returned by the language model.
// Every field is optional; decoding never fails on a field of the wrong shape.
type Analysis struct {
	ATS        string   `json:"ATS"`
	Name       string   `json:"Name"`
	Phone      string   `json:"Phone"`
	Mail       string   `json:"Mail"`
	Education  []string `json:"Edu"`
	Skills     []Skill  `json:"SKILLS"`
	Experience []string `json:"EXPERIENCE"`
}

// Score returns the numeric match score derived from the ATS string.
func (a *Analysis) Score() int {
	return ParseScore(a.ATS)
}

// UnmarshalJSON decodes model output defensively. The top level must be a JSON object;
// anything inside it that does not match the expected shape is dropped.
func (a *Analysis) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	fields := foldKeys(raw)
	// The documented spelling wins over case variants of the same key.
	lookup := func(exact string, aliases ...string) json.RawMessage {
		if v, ok := raw[exact]; ok {
			return v
		}
		for _, k := range aliases {
			if v, ok := fields[k]; ok {
				return v
			}
		}
		return nil
	}

	*a = Analysis{
		ATS:        scalarString(lookup("ATS", "ats", "ats_score", "score")),
		Name:       scalarString(lookup("Name", "name")),
		Phone:      scalarString(lookup("Phone", "phone")),
		Mail:       scalarString(lookup("Mail", "mail", "email")),
		Education:  stringList(lookup("Edu", "edu", "education")),
		Skills:     skillList(lookup("SKILLS", "skills")),
		Experience: stringList(lookup("EXPERIENCE", "experience")),
	}
	return nil
}

// foldKeys lowercases object keys. When several keys fold to the same name, the one already in
// lowercase is kept, otherwise the first in sorted order.
func foldKeys(raw map[string]json.RawMessage) map[string]json.RawMessage {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make(map[string]json.RawMessage, len(raw))
	for _, k := range keys {
		lk := strings.ToLower(k)
		if _, taken := fields[lk]; !taken || k == lk {
			fields[lk] = raw[k]
		}
	}
	return fields
}

func firstOf(fields map[string]json.RawMessage, keys ...string) json.RawMessage {
	for _, k := range keys {
		if v, ok := fields[k]; ok {
			return v
		}
	}
	return nil
}

// scalarString renders a JSON string, number or bool as text. Other shapes yield "".
func scalarString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b)
	}
	return ""
}

func stringList(raw json.RawMessage) []string {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		// A lone string is treated as a one-element list.
		if s := scalarString(raw); s != "" {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := scalarString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func skillList(raw json.RawMessage) []Skill {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]Skill, 0, len(items))
	for _, item := range items {
		if skill, ok := decodeSkill(item); ok {
			out = append(out, skill)
		}
	}
	return out
}

// decodeSkill accepts [category, details], {"category":..,"details":..} or a bare string.
func decodeSkill(raw json.RawMessage) (Skill, bool) {
	var pair []json.RawMessage
	if err := json.Unmarshal(raw, &pair); err == nil {
		switch len(pair) {
		case 0:
			return Skill{}, false
		case 1:
			cat := scalarString(pair[0])
			return Skill{Category: cat}, cat != ""
		default:
			skill := Skill{Category: scalarString(pair[0]), Details: scalarString(pair[1])}
			return skill, skill.Category != "" || skill.Details != ""
		}
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		fields := foldKeys(obj)
		skill := Skill{
			Category: scalarString(firstOf(fields, "category", "name")),
			Details:  scalarString(firstOf(fields, "details", "detail", "value")),
		}
		return skill, skill.Category != "" || skill.Details != ""
	}

	if s := scalarString(raw); s != "" {
		return Skill{Details: s}, true
	}
	return Skill{}, false
}

// ParseScore extracts the leading integer from a textual percentage such as "85%".
// Leading whitespace is ignored; anything without a leading digit yields 0.
func ParseScore(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// DetailPolicy decides whether detail rows are written for a CV with a given score.
type DetailPolicy struct {
	Gated     bool
	Threshold int
}

// DefaultDetailPolicy writes details only for scores strictly above 65.
var DefaultDetailPolicy = DetailPolicy{Gated: true, Threshold: 65}

// Allows reports whether detail rows should be written for score.
func (p DetailPolicy) Allows(score int) bool {
	return !p.Gated || score > p.Threshold
}

// SplitKeywords turns the raw keyword string into a trimmed list without empty entries.
func SplitKeywords(raw string) []string {
	out := []string{}
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// JoinKeywords is the inverse of SplitKeywords for keyword arrays.
func JoinKeywords(keywords []string) string {
	return strings.Join(SplitKeywords(strings.Join(keywords, ",")), ", ")
}

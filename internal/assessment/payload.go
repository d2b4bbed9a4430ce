package assessment

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DimensionResult is the grade and rationale given for one dimension.
type DimensionResult struct {
	Grade     Grade  `json:"grade"`
	Rationale string `json:"rationale"`
}

// Dimension is one named entry of an evaluation. Name keeps the key as the
// grader wrote it; Category is set when the name is recognised.
type Dimension struct {
	Name     string
	Category Category
	DimensionResult
}

// Label is the text used before the colon in strengths and improvements.
func (d Dimension) Label() string {
	if d.Category != "" {
		return string(d.Category)
	}
	return d.Name
}

// Evaluation is an ordered dimension list. It decodes from a JSON object and
// keeps the object's key order.
type Evaluation []Dimension

func (e *Evaluation) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("evaluation: expected object, got %v", tok)
	}
	var out Evaluation
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		d := Dimension{Name: name, DimensionResult: decodeResult(raw)}
		if c, ok := ParseCategory(name); ok {
			d.Category = c
		}
		out = append(out, d)
	}
	*e = out
	return nil
}

func (e Evaluation) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range e {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(d.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(d.DimensionResult)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func decodeResult(raw json.RawMessage) DimensionResult {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		// a bare string is read as the grade itself
		return DimensionResult{Grade: ParseGrade(looseString(raw))}
	}
	return DimensionResult{
		Grade:     ParseGrade(firstString(fields, "grade", "评分", "score")),
		Rationale: firstString(fields, "rationale", "理由", "reason"),
	}
}

// Block is one answered question with its evaluation.
type Block struct {
	ProjectName     string     `json:"project_name,omitempty"`
	Question        string     `json:"question"`
	UserAnswer      string     `json:"user_answer"`
	ReferenceAnswer string     `json:"reference_answer"`
	Evaluation      Evaluation `json:"evaluation,omitempty"`
	// Source is the provenance tag; set by Aggregate, ignored on input.
	Source string `json:"-"`
}

// HasEvaluation is false when grading failed or produced nothing.
func (b Block) HasEvaluation() bool { return len(b.Evaluation) > 0 }

func (b Block) empty() bool {
	return b.Question == "" && b.UserAnswer == "" && b.ReferenceAnswer == "" && b.ProjectName == "" && len(b.Evaluation) == 0
}

func (b *Block) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	b.ProjectName = firstString(fields, "project_name")
	b.Question = firstString(fields, "question")
	b.UserAnswer = firstString(fields, "user_answer", "answer")
	b.ReferenceAnswer = firstString(fields, "reference_answer")
	b.Evaluation = nil
	if raw, ok := fields["evaluation"]; ok {
		var ev Evaluation
		if err := json.Unmarshal(raw, &ev); err == nil {
			b.Evaluation = ev
		}
	}
	return nil
}

// Payload is the raw result of grading one interview.
type Payload struct {
	ProjectQA  []Block `json:"project_qa"`
	Advantages *Block  `json:"advantages,omitempty"`
	Code       *Block  `json:"code,omitempty"`
}

// ErrGraderFailure is returned by DecodePayload when the body is not an
// evaluation at all.
var ErrGraderFailure = errors.New("grader returned an unusable payload")

// DecodePayload reads a raw payload. Wrongly typed or missing members are
// dropped; only a body that is not a JSON object, or one carrying an "error"
// member, is rejected.
func DecodePayload(data []byte) (Payload, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil || top == nil {
		return Payload{}, ErrGraderFailure
	}
	if raw, ok := top["error"]; ok && !isNull(raw) {
		msg := looseString(raw)
		if msg == "" {
			msg = string(raw)
		}
		return Payload{}, fmt.Errorf("%w: %s", ErrGraderFailure, msg)
	}

	var p Payload
	if raw, ok := top["project_qa"]; ok {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err == nil {
			for _, it := range items {
				var b Block
				if err := json.Unmarshal(it, &b); err == nil && !b.empty() {
					p.ProjectQA = append(p.ProjectQA, b)
				}
			}
		}
	}
	p.Advantages = optionalBlock(top, "advantages")
	p.Code = optionalBlock(top, "code")
	return p, nil
}

func optionalBlock(top map[string]json.RawMessage, key string) *Block {
	raw, ok := top[key]
	if !ok {
		return nil
	}
	var b Block
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil
	}
	if b.empty() {
		return nil
	}
	return &b
}

func firstString(fields map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		if raw, ok := fields[k]; ok {
			if s := looseString(raw); s != "" {
				return s
			}
		}
	}
	return ""
}

// looseString reads a JSON string, or the literal text of a number.
func looseString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if _, err := strconv.ParseFloat(n.String(), 64); err == nil {
			return n.String()
		}
	}
	return ""
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

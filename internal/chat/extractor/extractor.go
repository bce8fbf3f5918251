// internal/chat/extractor/extractor.go
package extractor

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "wealth-assistant/internal/common/errors"
	"wealth-assistant/internal/common/logger"
)

// Operation names form a closed set. Anything the model emits outside this
// set is rejected before dispatch ever sees it.
const (
	OpGetUserDetails        = "getUserDetails"
	OpCalculateAUM          = "calculateAUM"
	OpGetTransactionDetails = "getTransactionDetails"
)

// Parameters carries everything an operation might need. Absent string
// fields are empty; an absent limit is zero.
type Parameters struct {
	ClientID        string `json:"clientId,omitempty"`
	PAN             string `json:"pan,omitempty"`
	Name            string `json:"name,omitempty"`
	Mobile          string `json:"mobile,omitempty"`
	ARNID           string `json:"arn_id,omitempty"`
	AgentCode       string `json:"agentCode,omitempty"`
	TransactionType string `json:"transactionType,omitempty"`
	DateFrom        string `json:"dateFrom,omitempty"`
	DateTo          string `json:"dateTo,omitempty"`
	Limit           int    `json:"limit,omitempty"`
}

// Merge fills every empty field of p from other. Populated fields win.
func (p *Parameters) Merge(other Parameters) {
	if p.ClientID == "" {
		p.ClientID = other.ClientID
	}
	if p.PAN == "" {
		p.PAN = other.PAN
	}
	if p.Name == "" {
		p.Name = other.Name
	}
	if p.Mobile == "" {
		p.Mobile = other.Mobile
	}
	if p.ARNID == "" {
		p.ARNID = other.ARNID
	}
	if p.AgentCode == "" {
		p.AgentCode = other.AgentCode
	}
	if p.TransactionType == "" {
		p.TransactionType = other.TransactionType
	}
	if p.DateFrom == "" {
		p.DateFrom = other.DateFrom
	}
	if p.DateTo == "" {
		p.DateTo = other.DateTo
	}
	if p.Limit == 0 {
		p.Limit = other.Limit
	}
}

// Directive is the structured instruction recovered from model output.
type Directive struct {
	OperationName string
	Parameters    Parameters
	Rationale     string
}

// GeneralResponse is returned when the model chose to answer directly
// instead of requesting an operation.
type GeneralResponse struct {
	Message string
}

const directiveSchema = `{
	"type": "object",
	"properties": {
		"type": {"type": "string", "enum": ["database_query", "general_response"]},
		"function": {"type": "string", "enum": ["getUserDetails", "calculateAUM", "getTransactionDetails"]},
		"parameters": {"type": "object"},
		"message": {"type": "string"},
		"reasoning": {"type": "string"}
	},
	"required": ["type"]
}`

var (
	jsonObjectPattern  = regexp.MustCompile(`\{[\s\S]*\}`)
	actionPattern      = regexp.MustCompile(`Action:\s*(\w+)`)
	actionInputPattern = regexp.MustCompile(`Action Input:\s*([\s\S]+)`)

	panPattern         = regexp.MustCompile(`\b[A-Z]{5}[0-9]{4}[A-Z]\b`)
	mobilePattern      = regexp.MustCompile(`\b\d{10}\b`)
	panTokenPattern    = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	mobileTokenPattern = regexp.MustCompile(`^\d{10}$`)
	alphanumPattern    = regexp.MustCompile(`^[A-Za-z0-9]+$`)

	limitPhrasePattern = regexp.MustCompile(`(?i)\b(?:last|first|recent|latest)\s+(\d{1,3})\b`)
	transTypePattern   = regexp.MustCompile(`(?i)\b(purchase|redemption|dividend|switch)\b`)
	clientIDPattern    = regexp.MustCompile(`(?i)\bclient\s*(?:id)?\s*[:#]?\s*([A-Za-z0-9]{4,})\b`)
)

// Extractor turns raw model output into directives and mines free text
// for operation parameters.
type Extractor struct {
	schema *gojsonschema.Schema
	logger logger.Logger
}

func New(log logger.Logger) (*Extractor, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(directiveSchema))
	if err != nil {
		return nil, fmt.Errorf("compiling directive schema: %w", err)
	}
	return &Extractor{
		schema: schema,
		logger: log.WithFields(map[string]interface{}{"component": "extractor"}),
	}, nil
}

// rawDirective tolerates both key spellings the model emits for the answer
// and the explanation.
type rawDirective struct {
	Type        string          `json:"type"`
	Function    string          `json:"function"`
	Parameters  json.RawMessage `json:"parameters"`
	Answer      string          `json:"answer"`
	Message     string          `json:"message"`
	Explanation string          `json:"explanation"`
	Reasoning   string          `json:"reasoning"`
}

func (r rawDirective) answerText() string {
	if r.Answer != "" {
		return r.Answer
	}
	return r.Message
}

func (r rawDirective) rationale() string {
	if r.Explanation != "" {
		return r.Explanation
	}
	return r.Reasoning
}

// ParseDirective recovers a structured instruction from model output. A
// legacy Action block takes the legacy path; otherwise an embedded JSON
// object is validated against the directive schema. A payload that looks
// like JSON but fails to parse or validate is malformed rather than absent.
//
// The second return value carries a direct answer when the model emitted a
// general_response directive; exactly one of the two results is non-nil on
// success.
func (e *Extractor) ParseDirective(output string) (*Directive, *GeneralResponse, error) {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return nil, nil, apperrors.ErrNoDirective
	}

	if actionPattern.MatchString(trimmed) {
		return e.parseActionBlock(trimmed)
	}

	if match := jsonObjectPattern.FindString(trimmed); match != "" {
		return e.parseJSON(match)
	}

	return nil, nil, apperrors.ErrNoDirective
}

func (e *Extractor) parseJSON(payload string) (*Directive, *GeneralResponse, error) {
	result, err := e.schema.Validate(gojsonschema.NewStringLoader(payload))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrDirectiveMalformed, err.Error())
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrDirectiveMalformed, strings.Join(details, "; "))
	}

	var raw rawDirective
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrDirectiveMalformed, err.Error())
	}

	switch raw.Type {
	case "general_response":
		return nil, &GeneralResponse{Message: raw.answerText()}, nil
	case "database_query":
		if raw.Function == "" {
			return nil, nil, fmt.Errorf("%w: database_query without function", apperrors.ErrDirectiveMalformed)
		}
		params, err := decodeParameters(raw.Parameters)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrDirectiveMalformed, err.Error())
		}
		return &Directive{
			OperationName: raw.Function,
			Parameters:    params,
			Rationale:     raw.rationale(),
		}, nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown directive type %q", apperrors.ErrDirectiveMalformed, raw.Type)
	}
}

// decodeParameters tolerates the numeric-versus-string looseness the model
// shows for limit while keeping every other field a string.
func decodeParameters(raw json.RawMessage) (Parameters, error) {
	var params Parameters
	if len(raw) == 0 {
		return params, nil
	}

	var loose map[string]interface{}
	if err := json.Unmarshal(raw, &loose); err != nil {
		return params, err
	}

	str := func(key string) string {
		if v, ok := loose[key]; ok {
			if s, ok := v.(string); ok {
				return strings.TrimSpace(s)
			}
		}
		return ""
	}

	params.ClientID = str("clientId")
	params.PAN = str("pan")
	if params.PAN == "" {
		params.PAN = str("PAN")
	}
	params.Name = str("name")
	params.Mobile = str("mobile")
	params.ARNID = str("arn_id")
	params.AgentCode = str("agentCode")
	params.TransactionType = str("transactionType")
	params.DateFrom = str("dateFrom")
	params.DateTo = str("dateTo")

	switch v := loose["limit"].(type) {
	case float64:
		params.Limit = int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			params.Limit = n
		}
	}

	return params, nil
}

// parseActionBlock handles the legacy "Action: fn / Action Input: payload"
// shape. A JSON-shaped payload must parse as JSON; a bare-string payload is
// classified by shape.
func (e *Extractor) parseActionBlock(output string) (*Directive, *GeneralResponse, error) {
	action := actionPattern.FindStringSubmatch(output)
	if action == nil {
		return nil, nil, apperrors.ErrNoDirective
	}

	d := &Directive{OperationName: action[1]}

	input := actionInputPattern.FindStringSubmatch(output)
	if input == nil {
		return d, nil, nil
	}

	payload := strings.TrimSpace(input[1])
	if payload == "" {
		return d, nil, nil
	}

	if strings.HasPrefix(payload, "{") || strings.HasPrefix(payload, "[") {
		if match := jsonObjectPattern.FindString(payload); match != "" {
			payload = match
		}
		params, err := decodeParameters(json.RawMessage(payload))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrDirectiveMalformed, err.Error())
		}
		d.Parameters = params
		return d, nil, nil
	}

	d.Parameters = ClassifyToken(payload)
	return d, nil, nil
}

// ClassifyToken assigns a bare string to the lookup field its shape implies.
func ClassifyToken(token string) Parameters {
	switch {
	case panTokenPattern.MatchString(token):
		return Parameters{PAN: token}
	case mobileTokenPattern.MatchString(token):
		return Parameters{Mobile: token}
	case alphanumPattern.MatchString(token) && len(token) > 3:
		return Parameters{ClientID: token}
	default:
		return Parameters{Name: token}
	}
}

// DetectParameters scans free text for anything usable as an operation
// parameter. It never fails; an empty result just means nothing matched.
func (e *Extractor) DetectParameters(message string) Parameters {
	var params Parameters

	if pan := panPattern.FindString(message); pan != "" {
		params.PAN = pan
	}
	if m := mobilePattern.FindString(message); m != "" {
		params.Mobile = m
	}
	if m := clientIDPattern.FindStringSubmatch(message); m != nil {
		params.ClientID = m[1]
	}
	if m := limitPhrasePattern.FindStringSubmatch(message); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			params.Limit = n
		}
	}
	if m := transTypePattern.FindStringSubmatch(message); m != nil {
		params.TransactionType = strings.ToLower(m[1])
	}

	return params
}

// HasStrongIdentifier reports whether the parameters carry a token precise
// enough to justify synthesizing a lookup on their own.
func (p Parameters) HasStrongIdentifier() bool {
	return p.PAN != "" || p.Mobile != "" || p.ClientID != ""
}

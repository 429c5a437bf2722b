package listener

import (
	"encoding/json"
	"strconv"
	"sync"

	"github.com/Knetic/govaluate"
	"github.com/rs/zerolog"
)

// Filter decides whether an event is sent to a realm's webhook. The
// expression comes from WEBHOOK_FILTER_<REALM> and is evaluated against the
// flattened event JSON plus eventType and realm. Nested keys are joined with
// "." and need brackets in the expression, e.g.
//
//	eventType == "USER_EVENT" && [details.username] != "service-account"
type Filter struct {
	mu       sync.Mutex
	compiled map[string]*govaluate.EvaluableExpression
	logger   zerolog.Logger
}

// NewFilter returns an empty expression cache.
func NewFilter(logger zerolog.Logger) *Filter {
	return &Filter{
		compiled: make(map[string]*govaluate.EvaluableExpression),
		logger:   logger,
	}
}

// Allow reports whether the event should be sent. Only an expression that
// evaluates to anything but true rejects the event; an empty expression, one
// that fails to compile or one that fails to evaluate lets it through.
func (f *Filter) Allow(expression, realm, eventType string, payload []byte) bool {
	if expression == "" {
		return true
	}
	expr, err := f.compile(expression)
	if err != nil {
		f.logger.Warn().
			Err(err).
			Str("realm", realm).
			Str("filter", expression).
			Msg("Invalid webhook filter, sending unfiltered")
		return true
	}

	result, err := expr.Evaluate(filterParams(payload, realm, eventType))
	if err != nil {
		f.logger.Warn().
			Err(err).
			Str("realm", realm).
			Str("filter", expression).
			Msg("Webhook filter evaluation failed, sending unfiltered")
		return true
	}
	ok, _ := result.(bool)
	return ok
}

func (f *Filter) compile(expression string) (*govaluate.EvaluableExpression, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if expr, ok := f.compiled[expression]; ok {
		return expr, nil
	}
	expr, err := govaluate.NewEvaluableExpression(expression)
	if err != nil {
		return nil, err
	}
	f.compiled[expression] = expr
	return expr, nil
}

func filterParams(payload []byte, realm, eventType string) map[string]interface{} {
	params := make(map[string]interface{})
	var object map[string]interface{}
	if err := json.Unmarshal(payload, &object); err == nil {
		for key, value := range object {
			flattenInto(params, key, value)
		}
	}
	params["eventType"] = eventType
	params["realm"] = realm
	return params
}

// flattenInto writes value into out under path, descending into objects
// ("a.b") and arrays ("a[0]"). Arrays are also kept whole under path and
// path+"[]".
func flattenInto(out map[string]interface{}, path string, value interface{}) {
	switch typed := value.(type) {
	case map[string]interface{}:
		for key, child := range typed {
			flattenInto(out, path+"."+key, child)
		}
	case []interface{}:
		out[path] = typed
		out[path+"[]"] = typed
		for i, child := range typed {
			flattenInto(out, path+"["+strconv.Itoa(i)+"]", child)
		}
	default:
		out[path] = value
	}
}

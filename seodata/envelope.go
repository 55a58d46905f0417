package seodata

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Provider status codes. 2xxxx means success; 40200 is the provider's
// distinct "payment required / subscription needed" code.
const (
	statusPaymentRequired = 40200
)

// ErrPaymentRequired marks a provider refusal due to a lapsed subscription.
// It still collapses to an absent result, but operators can pick it out of
// the logs and the error metrics.
var ErrPaymentRequired = errors.New("seodata: provider subscription required")

var errEmptyEnvelope = errors.New("seodata: empty provider envelope")

// taskEnvelope is the nested per-task shape.
type taskEnvelope struct {
	StatusCode    int               `json:"status_code"`
	StatusMessage string            `json:"status_message"`
	Result        []json.RawMessage `json:"result"`
}

// responseEnvelope covers both envelope shapes the provider emits: the flat
// one carries Result directly, the nested one wraps it in Tasks.
type responseEnvelope struct {
	StatusCode    int               `json:"status_code"`
	StatusMessage string            `json:"status_message"`
	Tasks         []taskEnvelope    `json:"tasks"`
	Result        []json.RawMessage `json:"result"`
}

// decodeItems collapses either envelope shape into one canonical item list.
func decodeItems(data []byte) ([]json.RawMessage, error) {
	var env responseEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	if env.StatusCode == statusPaymentRequired {
		return nil, ErrPaymentRequired
	}
	if env.StatusCode != 0 && !statusOK(env.StatusCode) {
		return nil, fmt.Errorf("provider status %d: %s", env.StatusCode, env.StatusMessage)
	}

	for _, task := range env.Tasks {
		if task.StatusCode == statusPaymentRequired {
			return nil, ErrPaymentRequired
		}
		if task.StatusCode != 0 && !statusOK(task.StatusCode) {
			continue
		}
		if len(task.Result) > 0 {
			return task.Result, nil
		}
	}

	if len(env.Result) > 0 {
		return env.Result, nil
	}
	return nil, errEmptyEnvelope
}

func statusOK(code int) bool {
	return code >= 20000 && code < 30000
}

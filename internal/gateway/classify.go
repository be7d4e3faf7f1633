// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import (
	"errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ErrorClass is the failure category assigned to one backend call error.
// Providers expose heterogeneous, non-standardized error shapes, so
// classification is by signal matching rather than typed errors.
type ErrorClass string

const (
	// ClassRateLimited covers 429s and rate/quota exhaustion messages.
	ClassRateLimited ErrorClass = "rate-limited"

	// ClassModelUnavailable covers unknown, invalid, or decommissioned models.
	ClassModelUnavailable ErrorClass = "model-unavailable"

	// ClassBillingOrQuota covers billing, subscription, and payment failures.
	ClassBillingOrQuota ErrorClass = "billing-or-quota"

	// ClassUnclassified covers everything else.
	ClassUnclassified ErrorClass = "unclassified"
)

// Signal phrases, matched case-insensitively against the error text.
// rateLimitSignals is checked first: "quota" counts as rate exhaustion even
// when a provider phrases it as a billing message.
var (
	rateLimitSignals = []string{
		"rate limit",
		"rate_limit",
		"quota",
		"too many requests",
	}

	modelUnavailableSignals = []string{
		"model not found",
		"model_not_found",
		"invalid model",
		"does not exist",
		"decommissioned",
		"deprecated model",
		"no such model",
	}

	billingSignals = []string{
		"billing",
		"subscription",
		"payment",
	}
)

// Classify maps a backend call error into exactly one ErrorClass. An HTTP
// status attached via openai.APIError takes precedence over message text for
// the 429 and 404 cases.
func Classify(err error) ErrorClass {
	if err == nil {
		return ClassUnclassified
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return ClassRateLimited
		case http.StatusNotFound:
			return ClassModelUnavailable
		}
	}

	msg := strings.ToLower(err.Error())

	for _, sig := range rateLimitSignals {
		if strings.Contains(msg, sig) {
			return ClassRateLimited
		}
	}
	for _, sig := range modelUnavailableSignals {
		if strings.Contains(msg, sig) {
			return ClassModelUnavailable
		}
	}
	for _, sig := range billingSignals {
		if strings.Contains(msg, sig) {
			return ClassBillingOrQuota
		}
	}
	if strings.Contains(msg, "429") {
		return ClassRateLimited
	}

	return ClassUnclassified
}

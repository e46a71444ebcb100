package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound         = errors.New("resource not found")
	ErrRunNotFound      = fmt.Errorf("%w: run", ErrNotFound)
	ErrArtifactNotFound = fmt.Errorf("%w: artifact", ErrNotFound)

	// Model lifecycle errors
	ErrUntrainedModel = errors.New("model has not been trained")

	// Knowledge base integrity errors
	ErrDuplicateRule = errors.New("duplicate rule identifier")

	// Fusion errors
	ErrFusionDimension = errors.New("label space mismatch between branches")

	// Rule evaluation errors (contained per rule, recorded in the trace)
	ErrRuleEvaluation = errors.New("rule evaluation failed")

	// Run configuration errors (fail fast, before any training)
	ErrRunConfiguration = errors.New("invalid run configuration")

	// Tracker errors
	ErrMetricConflict = errors.New("conflicting value for already-logged key")
	ErrRunFinalized   = errors.New("experiment record is finalized")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewUntrainedModelError(operation string) error {
	return fmt.Errorf("%w: %s requires a prior successful Fit", ErrUntrainedModel, operation)
}

func NewDuplicateRuleError(ruleID RuleID) error {
	return fmt.Errorf("%w: %s", ErrDuplicateRule, ruleID)
}

func NewFusionDimensionError(neuralClasses, symbolicClasses int) error {
	return fmt.Errorf("%w: neural branch has %d classes, symbolic branch has %d",
		ErrFusionDimension, neuralClasses, symbolicClasses)
}

func NewRunConfigurationError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrRunConfiguration, field, reason)
}

func NewMetricConflictError(key string, existing, proposed interface{}) error {
	return fmt.Errorf("%w: %s already logged as %v, refusing %v",
		ErrMetricConflict, key, existing, proposed)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsUntrainedModelError(err error) bool {
	return errors.Is(err, ErrUntrainedModel)
}

func IsDuplicateRuleError(err error) bool {
	return errors.Is(err, ErrDuplicateRule)
}

func IsFusionDimensionError(err error) bool {
	return errors.Is(err, ErrFusionDimension)
}

func IsRunConfigurationError(err error) bool {
	return errors.Is(err, ErrRunConfiguration)
}

func IsMetricConflictError(err error) bool {
	return errors.Is(err, ErrMetricConflict)
}

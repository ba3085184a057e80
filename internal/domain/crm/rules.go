// Package crm holds the customer grading, lifecycle and reminder rules.
// Everything here is a pure function of its inputs and the clock value passed in.
package crm

import (
	"fmt"
	"os"

	"github.com/sangkips/orderdesk-api/internal/domain/enum"
	"gopkg.in/yaml.v3"
)

// Field names a customer metric a grade condition can test
type Field string

const (
	FieldTotalOrders              Field = "total_orders"
	FieldTotalAmount              Field = "total_amount"
	FieldDaysSinceLastOrder       Field = "days_since_last_order"
	FieldDaysSinceLastInteraction Field = "days_since_last_interaction"
)

// Operator compares a metric against a threshold
type Operator string

const (
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpEqual        Operator = "=="
)

// MatchType decides how the conditions of a rule combine
type MatchType string

const (
	MatchAny     MatchType = "any"
	MatchAll     MatchType = "all"
	MatchDefault MatchType = "default"
)

// Condition is one threshold test. Amounts are in currency units, not cents.
type Condition struct {
	Field    Field    `yaml:"field" json:"field"`
	Operator Operator `yaml:"operator" json:"operator"`
	Value    float64  `yaml:"value" json:"value"`
}

// GradeRule assigns Grade when its conditions match
type GradeRule struct {
	Grade      enum.CustomerGrade `yaml:"grade" json:"grade"`
	MatchType  MatchType          `yaml:"match_type" json:"match_type"`
	Conditions []Condition        `yaml:"conditions" json:"conditions"`
}

// StatusWindows are the lifecycle thresholds, in days
type StatusWindows struct {
	NewWindowDays        int `yaml:"new_window_days" json:"new_window_days"`
	ActiveWindowDays     int `yaml:"active_window_days" json:"active_window_days"`
	LoyalMinOrders       int `yaml:"loyal_min_orders" json:"loyal_min_orders"`
	LoyalTenureDays      int `yaml:"loyal_tenure_days" json:"loyal_tenure_days"`
	ChurnDays            int `yaml:"churn_days" json:"churn_days"`
	InteractionGraceDays int `yaml:"interaction_grace_days" json:"interaction_grace_days"`
}

// ReminderWindows are the reminder thresholds, in days
type ReminderWindows struct {
	NoOrderDays           int `yaml:"no_order_days" json:"no_order_days"`
	FollowUpDueDays       int `yaml:"follow_up_due_days" json:"follow_up_due_days"`
	FollowUpLookaheadDays int `yaml:"follow_up_lookahead_days" json:"follow_up_lookahead_days"`
	BirthdayLookaheadDays int `yaml:"birthday_lookahead_days" json:"birthday_lookahead_days"`
	RenewalLookaheadDays  int `yaml:"renewal_lookahead_days" json:"renewal_lookahead_days"`
	RenewalUrgentDays     int `yaml:"renewal_urgent_days" json:"renewal_urgent_days"`
}

// Rules is the full engine configuration
type Rules struct {
	GradeRules []GradeRule     `yaml:"grade_rules" json:"grade_rules"`
	Status     StatusWindows   `yaml:"status_rules" json:"status_rules"`
	Reminders  ReminderWindows `yaml:"reminder_rules" json:"reminder_rules"`
}

// Default thresholds. Cutoffs are not observable from the clients of this
// service, so these are chosen values and can be overridden by a rules file.
const (
	DefaultGradeAAmount     = 500000
	DefaultGradeAOrders     = 20
	DefaultGradeARecentDays = 180
	DefaultGradeBAmount     = 100000
	DefaultGradeBOrders     = 5

	DefaultNewWindowDays        = 30
	DefaultActiveWindowDays     = 90
	DefaultLoyalMinOrders       = 10
	DefaultLoyalTenureDays      = 365
	DefaultChurnDays            = 180
	DefaultInteractionGraceDays = 30

	DefaultNoOrderDays           = 90
	DefaultFollowUpDueDays       = 7
	DefaultFollowUpLookaheadDays = 3
	DefaultBirthdayLookaheadDays = 7
	DefaultRenewalLookaheadDays  = 30
	DefaultRenewalUrgentDays     = 7
)

// DefaultRules returns the built-in rule set
func DefaultRules() Rules {
	return Rules{
		GradeRules: []GradeRule{
			{
				Grade:     enum.CustomerGradeA,
				MatchType: MatchAll,
				Conditions: []Condition{
					{Field: FieldTotalAmount, Operator: OpGreaterEqual, Value: DefaultGradeAAmount},
					{Field: FieldDaysSinceLastOrder, Operator: OpLessEqual, Value: DefaultGradeARecentDays},
				},
			},
			{
				Grade:     enum.CustomerGradeA,
				MatchType: MatchAll,
				Conditions: []Condition{
					{Field: FieldTotalOrders, Operator: OpGreaterEqual, Value: DefaultGradeAOrders},
					{Field: FieldDaysSinceLastOrder, Operator: OpLessEqual, Value: DefaultGradeARecentDays},
				},
			},
			{
				Grade:     enum.CustomerGradeB,
				MatchType: MatchAny,
				Conditions: []Condition{
					{Field: FieldTotalAmount, Operator: OpGreaterEqual, Value: DefaultGradeBAmount},
					{Field: FieldTotalOrders, Operator: OpGreaterEqual, Value: DefaultGradeBOrders},
				},
			},
			{Grade: enum.CustomerGradeC, MatchType: MatchDefault},
		},
		Status: StatusWindows{
			NewWindowDays:        DefaultNewWindowDays,
			ActiveWindowDays:     DefaultActiveWindowDays,
			LoyalMinOrders:       DefaultLoyalMinOrders,
			LoyalTenureDays:      DefaultLoyalTenureDays,
			ChurnDays:            DefaultChurnDays,
			InteractionGraceDays: DefaultInteractionGraceDays,
		},
		Reminders: ReminderWindows{
			NoOrderDays:           DefaultNoOrderDays,
			FollowUpDueDays:       DefaultFollowUpDueDays,
			FollowUpLookaheadDays: DefaultFollowUpLookaheadDays,
			BirthdayLookaheadDays: DefaultBirthdayLookaheadDays,
			RenewalLookaheadDays:  DefaultRenewalLookaheadDays,
			RenewalUrgentDays:     DefaultRenewalUrgentDays,
		},
	}
}

// Validate checks that the rule set is usable
func (r Rules) Validate() error {
	for i, rule := range r.GradeRules {
		if !rule.Grade.IsValid() {
			return fmt.Errorf("grade_rules[%d]: unknown grade %q", i, rule.Grade)
		}
		switch rule.MatchType {
		case MatchDefault:
			continue
		case MatchAny, MatchAll:
		default:
			return fmt.Errorf("grade_rules[%d]: unknown match_type %q", i, rule.MatchType)
		}
		if len(rule.Conditions) == 0 {
			return fmt.Errorf("grade_rules[%d]: %s rule needs at least one condition", i, rule.MatchType)
		}
		for j, cond := range rule.Conditions {
			switch cond.Field {
			case FieldTotalOrders, FieldTotalAmount, FieldDaysSinceLastOrder, FieldDaysSinceLastInteraction:
			default:
				return fmt.Errorf("grade_rules[%d].conditions[%d]: unknown field %q", i, j, cond.Field)
			}
			switch cond.Operator {
			case OpGreater, OpGreaterEqual, OpLess, OpLessEqual, OpEqual:
			default:
				return fmt.Errorf("grade_rules[%d].conditions[%d]: unknown operator %q", i, j, cond.Operator)
			}
		}
	}

	s := r.Status
	if s.NewWindowDays < 0 || s.ActiveWindowDays <= 0 || s.ChurnDays <= 0 || s.LoyalMinOrders <= 0 ||
		s.LoyalTenureDays < 0 || s.InteractionGraceDays < 0 {
		return fmt.Errorf("status_rules: windows must be positive")
	}
	if s.ChurnDays < s.ActiveWindowDays {
		return fmt.Errorf("status_rules: churn_days (%d) must not be shorter than active_window_days (%d)", s.ChurnDays, s.ActiveWindowDays)
	}

	m := r.Reminders
	if m.NoOrderDays <= 0 || m.FollowUpDueDays < 0 || m.FollowUpLookaheadDays < 0 ||
		m.BirthdayLookaheadDays < 0 || m.RenewalLookaheadDays < 0 || m.RenewalUrgentDays < 0 {
		return fmt.Errorf("reminder_rules: windows must not be negative")
	}
	return nil
}

// ParseRules decodes a YAML rule file. Sections left out keep their defaults.
func ParseRules(data []byte) (Rules, error) {
	rules := DefaultRules()
	rules.GradeRules = nil
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("failed to parse rules: %w", err)
	}
	if len(rules.GradeRules) == 0 {
		rules.GradeRules = DefaultRules().GradeRules
	}

	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

// LoadRules reads and parses a rule file
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("failed to read rules file: %w", err)
	}
	return ParseRules(data)
}

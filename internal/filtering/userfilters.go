package filtering

import (
	"math"
	"time"

	"github.com/jonathan/talent-search/internal/types"
)

// Gender values used by the HR snapshot.
const (
	genderMale   = "男"
	genderFemale = "女"
)

// matchesUserFilters applies the caller-supplied override filters in order:
// gender, experience buckets, join date, birth date, employment period,
// departure date.
func matchesUserFilters(emp types.EmployeeRecord, user *types.UserFilters, now time.Time) bool {
	if user == nil {
		return true
	}
	if !matchesGender(emp, user.Gender) {
		return false
	}
	if !matchesExperience(emp, user.Experience, now) {
		return false
	}
	if !matchesDateRange(emp.EnteredAt, user.JoinDate) {
		return false
	}
	if !matchesDateRange(emp.Birthday, user.BirthDate) {
		return false
	}
	if !matchesEmploymentPeriod(emp, user.EmploymentPeriod, now) {
		return false
	}
	if !matchesDeparture(emp, user.DepartureDate) {
		return false
	}
	return true
}

// matchesGender applies the gender toggles. With no toggle enabled the filter
// is a no-op.
func matchesGender(emp types.EmployeeRecord, f *types.GenderFilter) bool {
	if f == nil || (!f.Male && !f.Female) {
		return true
	}
	switch emp.Gender {
	case genderMale:
		return f.Male
	case genderFemale:
		return f.Female
	}
	return false
}

// matchesExperience OR-combines the enabled tenure buckets against the years
// derived from entered_at.
func matchesExperience(emp types.EmployeeRecord, f *types.ExperienceFilter, now time.Time) bool {
	if f == nil || (!f.LessThan3 && !f.LessThan5 && !f.MoreThan5) {
		return true
	}

	years := YearsOfExperience(emp.EnteredAt, now)
	if f.LessThan3 && years < 3 {
		return true
	}
	if f.LessThan5 && years < 5 {
		return true
	}
	if f.MoreThan5 && years >= 5 {
		return true
	}
	return false
}

// YearsOfExperience derives tenure in years from an entered_at date, rounded
// to two decimals. A missing or unparseable date yields zero.
func YearsOfExperience(enteredAt string, now time.Time) float64 {
	if enteredAt == "" {
		return 0
	}
	entered, err := time.Parse(types.DateLayout, enteredAt)
	if err != nil {
		return 0
	}
	years := now.Sub(entered).Hours() / 24 / 365.25
	return math.Round(years*100) / 100
}

// matchesDateRange checks one record date against inclusive from/to bounds.
// A record lacking the date passes; the filter cannot disprove it.
func matchesDateRange(dateStr string, f *types.DateRangeFilter) bool {
	if f == nil || f.NoInput {
		return true
	}
	if dateStr == "" {
		return true
	}
	date, err := time.Parse(types.DateLayout, dateStr)
	if err != nil {
		return true
	}

	if f.From != "" {
		if from, err := time.Parse(types.DateLayout, f.From); err == nil && date.Before(from) {
			return false
		}
	}
	if f.To != "" {
		if to, err := time.Parse(types.DateLayout, f.To); err == nil && date.After(to) {
			return false
		}
	}
	return true
}

// matchesEmploymentPeriod constrains the whole employment span: entry must
// not precede From, and departure (or today, for active employees) must not
// exceed To.
func matchesEmploymentPeriod(emp types.EmployeeRecord, f *types.DateRangeFilter, now time.Time) bool {
	if f == nil || f.NoInput {
		return true
	}
	if emp.EnteredAt == "" {
		return true
	}
	entered, err := time.Parse(types.DateLayout, emp.EnteredAt)
	if err != nil {
		return true
	}

	retired := now
	if emp.RetiredAt != "" {
		if parsed, err := time.Parse(types.DateLayout, emp.RetiredAt); err == nil {
			retired = parsed
		}
	}

	if f.From != "" {
		if from, err := time.Parse(types.DateLayout, f.From); err == nil && entered.Before(from) {
			return false
		}
	}
	if f.To != "" {
		if to, err := time.Parse(types.DateLayout, f.To); err == nil && retired.After(to) {
			return false
		}
	}
	return true
}

// matchesDeparture is the one override that fails a record outright when a
// bound is requested but the record never departed.
func matchesDeparture(emp types.EmployeeRecord, f *types.DateRangeFilter) bool {
	if f == nil || f.NoInput {
		return true
	}
	if emp.RetiredAt == "" {
		return f.From == "" && f.To == ""
	}
	return matchesDateRange(emp.RetiredAt, f)
}

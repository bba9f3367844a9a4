package services

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/vieclam/jobportal/internal/domain/models"
)

type Category string

const (
	CategoryAll    Category = ""
	CategoryFnB    Category = "f&b"
	CategoryRetail Category = "retail"
	CategoryEvent  Category = "event"
	CategoryOther  Category = "other"
)

var Categories = []Category{CategoryFnB, CategoryRetail, CategoryEvent, CategoryOther}

func ParseCategory(s string) (Category, error) {
	normalized := Category(strings.ToLower(strings.TrimSpace(s)))
	if normalized == CategoryAll || lo.Contains(Categories, normalized) {
		return normalized, nil
	}
	return "", fmt.Errorf("invalid category: %q", s)
}

// CategoryOf puts a job into one of the four buckets. Anything that is not
// exactly f&b, retail or event (case-insensitive) is other.
func CategoryOf(job models.JobPosting) Category {
	switch normalized := Category(strings.ToLower(strings.TrimSpace(job.Category))); normalized {
	case CategoryFnB, CategoryRetail, CategoryEvent:
		return normalized
	default:
		return CategoryOther
	}
}

func FilterByCategory(jobs []models.JobPosting, category Category) []models.JobPosting {
	if category == CategoryAll {
		return jobs
	}
	return lo.Filter(jobs, func(job models.JobPosting, _ int) bool {
		return CategoryOf(job) == category
	})
}

type SalaryRange struct {
	Label string
	Min   int64
	Max   int64
}

func (r SalaryRange) Contains(amount int64) bool {
	return amount >= r.Min && amount <= r.Max
}

var SalaryRanges = []SalaryRange{
	{Label: "Dưới 20,000/giờ", Min: 0, Max: 19999},
	{Label: "20,000 - 30,000/giờ", Min: 20000, Max: 30000},
	{Label: "30,000 - 50,000/giờ", Min: 30001, Max: 50000},
	{Label: "Trên 50,000/giờ", Min: 50001, Max: math.MaxInt64},
}

var salaryNumberRegexp = regexp.MustCompile(`\d[\d.,]*`)

// ParseSalary extracts the first number of a formatted salary such as
// "20,000/giờ". Thousands separators may be commas or dots.
func ParseSalary(salary string) (int64, bool) {
	match := salaryNumberRegexp.FindString(salary)
	if match == "" {
		return 0, false
	}
	digits := strings.NewReplacer(",", "", ".", "").Replace(match)
	amount, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

// FilterBySalary keeps jobs whose parsed salary lies in r, bounds included.
// A nil range keeps everything; unparsable salaries never match a range.
func FilterBySalary(jobs []models.JobPosting, r *SalaryRange) []models.JobPosting {
	if r == nil {
		return jobs
	}
	return lo.Filter(jobs, func(job models.JobPosting, _ int) bool {
		amount, ok := ParseSalary(job.Salary())
		return ok && r.Contains(amount)
	})
}

func Paginate[T any](list []T, page, size int) []T {
	if page < 1 || size < 1 {
		return []T{}
	}
	start := (page - 1) * size
	if start >= len(list) {
		return []T{}
	}
	end := min(page*size, len(list))
	return list[start:end]
}

func TotalPages(count, size int) int {
	if count <= 0 || size < 1 {
		return 0
	}
	return (count + size - 1) / size
}

type ListingFilter struct {
	Category Category
	Salary   *SalaryRange
}

func (f ListingFilter) Apply(jobs []models.JobPosting) []models.JobPosting {
	return FilterBySalary(FilterByCategory(jobs, f.Category), f.Salary)
}

func (f ListingFilter) IsEmpty() bool {
	return f.Category == CategoryAll && f.Salary == nil
}

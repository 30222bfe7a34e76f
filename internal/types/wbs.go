package types

import (
	"fmt"
	"strconv"
	"strings"
)

// WbsNumber identifies a project (WorkPackageNumber == 0) or a work package
// (WorkPackageNumber > 0) within a car's work breakdown structure.
type WbsNumber struct {
	CarNumber         int `json:"carNumber"`
	ProjectNumber     int `json:"projectNumber"`
	WorkPackageNumber int `json:"workPackageNumber"`
}

// String renders the WBS number in its dotted form, e.g. "1.12.0"
func (w WbsNumber) String() string {
	return fmt.Sprintf("%d.%d.%d", w.CarNumber, w.ProjectNumber, w.WorkPackageNumber)
}

// IsProject reports whether the WBS number identifies a project
func (w WbsNumber) IsProject() bool {
	return w.WorkPackageNumber == 0
}

// IsWorkPackage reports whether the WBS number identifies a work package
func (w WbsNumber) IsWorkPackage() bool {
	return w.WorkPackageNumber > 0
}

// Validate checks that every component is non-negative
func (w WbsNumber) Validate() error {
	if w.CarNumber < 0 || w.ProjectNumber < 0 || w.WorkPackageNumber < 0 {
		return fmt.Errorf("%s is not a valid WBS #", w.String())
	}
	return nil
}

// ParseWbs parses a dotted WBS string ("1.1.0") into a WbsNumber
func ParseWbs(s string) (WbsNumber, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return WbsNumber{}, fmt.Errorf("%s is not a valid WBS #", s)
	}

	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return WbsNumber{}, fmt.Errorf("%s is not a valid WBS #", s)
		}
		nums[i] = n
	}

	return WbsNumber{CarNumber: nums[0], ProjectNumber: nums[1], WorkPackageNumber: nums[2]}, nil
}

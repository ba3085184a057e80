package enum

// CustomerStatus is the lifecycle stage of a customer
type CustomerStatus string

const (
	CustomerStatusPotential CustomerStatus = "potential"
	CustomerStatusNew       CustomerStatus = "new"
	CustomerStatusActive    CustomerStatus = "active"
	CustomerStatusLoyal     CustomerStatus = "loyal"
	CustomerStatusChurned   CustomerStatus = "churned"
)

func (s CustomerStatus) String() string {
	return string(s)
}

// IsValid reports whether s is a known lifecycle status
func (s CustomerStatus) IsValid() bool {
	switch s {
	case CustomerStatusPotential, CustomerStatusNew, CustomerStatusActive, CustomerStatusLoyal, CustomerStatusChurned:
		return true
	}
	return false
}

// CustomerGrade is the commercial tier of a customer
type CustomerGrade string

const (
	CustomerGradeA CustomerGrade = "A"
	CustomerGradeB CustomerGrade = "B"
	CustomerGradeC CustomerGrade = "C"
)

func (g CustomerGrade) String() string {
	return string(g)
}

// IsValid reports whether g is one of A, B or C
func (g CustomerGrade) IsValid() bool {
	switch g {
	case CustomerGradeA, CustomerGradeB, CustomerGradeC:
		return true
	}
	return false
}

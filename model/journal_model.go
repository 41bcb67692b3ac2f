package model

import "fmt"

type ChildProfile struct {
	Name      string `json:"name"`
	BirthDate Date   `json:"birthDate"`
	Gender    Gender `json:"gender"`
}

func (p *ChildProfile) DebugString() string {
	return fmt.Sprintf("name: %v, gender: %v, birthDate: %v", p.Name, p.Gender, p.BirthDate)
}

// GrowthRecord holds one visit. A zero Height or Weight means it was not measured.
type GrowthRecord struct {
	ID     string  `json:"id"`
	Date   Date    `json:"date"`
	Height float64 `json:"height"` // cm
	Weight float64 `json:"weight"` // kg
	Notes  string  `json:"notes,omitempty"`
}

func (r *GrowthRecord) Value(t MeasurementType) float64 {
	if t == Weight {
		return r.Weight
	}
	return r.Height
}

type VaccineRecord struct {
	ID          string `json:"id"`
	Date        Date   `json:"date"`
	VaccineName string `json:"vaccineName"`
	Dose        string `json:"dose"`
	Location    string `json:"location"`
	Photo       string `json:"photo,omitempty"` // base64 data URL
}

// AppState is the whole persisted blob.
type AppState struct {
	Profile  *ChildProfile   `json:"profile"`
	Records  []GrowthRecord  `json:"records"`
	Vaccines []VaccineRecord `json:"vaccines"`
}

func NewAppState() *AppState {
	return &AppState{
		Profile:  nil,
		Records:  []GrowthRecord{},
		Vaccines: []VaccineRecord{},
	}
}

func (s *AppState) IsEmpty() bool {
	if s == nil {
		return true
	}
	return s.Profile == nil && len(s.Records) == 0 && len(s.Vaccines) == 0
}

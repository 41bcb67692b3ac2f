package journal

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/uyouii/littlesprout/common"
	"github.com/uyouii/littlesprout/lms"
	"github.com/uyouii/littlesprout/model"
	"github.com/uyouii/littlesprout/storage"
	"github.com/uyouii/littlesprout/utils"
	"go.uber.org/zap"
)

// Journal is the record book of one child. Every change is a
// load-modify-save of the whole state in the store.
type Journal struct {
	mu    sync.Mutex
	store storage.Store
	today func() model.Date
}

func New(store storage.Store) *Journal {
	return &Journal{
		store: store,
		today: model.Today,
	}
}

func (j *Journal) State(ctx context.Context) (*model.AppState, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.store.Load(ctx)
}

// Profile returns common.ErrorNoProfile until one has been set.
func (j *Journal) Profile(ctx context.Context) (*model.ChildProfile, error) {
	state, err := j.State(ctx)
	if err != nil {
		return nil, err
	}
	if state.Profile == nil {
		return nil, common.ErrorNoProfile
	}
	return state.Profile, nil
}

func (j *Journal) SetProfile(ctx context.Context, profile model.ChildProfile) (*model.ChildProfile, error) {
	profile.Name = strings.TrimSpace(profile.Name)
	if err := j.validateProfile(profile); err != nil {
		return nil, err
	}

	err := j.update(ctx, func(state *model.AppState) error {
		state.Profile = &profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	utils.GetLogger(ctx).Info("profile saved", zap.String("profile", profile.DebugString()))
	return &profile, nil
}

func (j *Journal) validateProfile(profile model.ChildProfile) error {
	if profile.Name == "" {
		return fmt.Errorf("profile name is empty: %w", common.ErrorInvalidValue)
	}
	if !profile.Gender.Valid() {
		return fmt.Errorf("gender %q: %w", profile.Gender, common.ErrorInvalidValue)
	}
	if profile.BirthDate.IsZero() || profile.BirthDate.After(j.today().Time) {
		return fmt.Errorf("birth date %q: %w", profile.BirthDate, common.ErrorInvalidValue)
	}
	return nil
}

// SaveRecord adds a record, or replaces the record with the same ID.
// A record without ID gets a new one.
func (j *Journal) SaveRecord(ctx context.Context, record model.GrowthRecord) (*model.GrowthRecord, error) {
	logger := utils.GetLogger(ctx)

	if record.Height < 0 || record.Weight < 0 || (record.Height == 0 && record.Weight == 0) {
		return nil, fmt.Errorf("height %v, weight %v: %w", record.Height, record.Weight, common.ErrorInvalidValue)
	}
	if record.Date.IsZero() {
		record.Date = j.today()
	}
	record.Notes = strings.TrimSpace(record.Notes)

	err := j.update(ctx, func(state *model.AppState) error {
		if state.Profile == nil {
			return common.ErrorNoProfile
		}
		if record.Date.Before(state.Profile.BirthDate.Time) {
			return fmt.Errorf("record date %v before birth date %v: %w",
				record.Date, state.Profile.BirthDate, common.ErrorInvalidValue)
		}

		if record.ID == "" {
			record.ID = uuid.NewString()
			state.Records = append(state.Records, record)
			return nil
		}
		index := slices.IndexFunc(state.Records, func(r model.GrowthRecord) bool { return r.ID == record.ID })
		if index < 0 {
			state.Records = append(state.Records, record)
			return nil
		}
		state.Records[index] = record
		return nil
	})
	if err != nil {
		logger.Error("save record failed", zap.Error(err), zap.Any("record", record))
		return nil, err
	}
	return &record, nil
}

func (j *Journal) DeleteRecord(ctx context.Context, id string) error {
	return j.update(ctx, func(state *model.AppState) error {
		before := len(state.Records)
		state.Records = slices.DeleteFunc(state.Records, func(r model.GrowthRecord) bool { return r.ID == id })
		if len(state.Records) == before {
			return fmt.Errorf("record %s: %w", id, common.ErrorNotFound)
		}
		return nil
	})
}

// Records returns the growth records, oldest first.
func (j *Journal) Records(ctx context.Context) ([]model.GrowthRecord, error) {
	state, err := j.State(ctx)
	if err != nil {
		return nil, err
	}
	return SortRecords(state.Records), nil
}

// Record returns the growth record with the given ID.
func (j *Journal) Record(ctx context.Context, id string) (*model.GrowthRecord, error) {
	state, err := j.State(ctx)
	if err != nil {
		return nil, err
	}
	index := slices.IndexFunc(state.Records, func(r model.GrowthRecord) bool { return r.ID == id })
	if index < 0 {
		return nil, fmt.Errorf("record %s: %w", id, common.ErrorNotFound)
	}
	return &state.Records[index], nil
}

// AnnotatedRecords returns the records, oldest first, with percentiles.
func (j *Journal) AnnotatedRecords(ctx context.Context) ([]AnnotatedRecord, error) {
	state, err := j.State(ctx)
	if err != nil {
		return nil, err
	}
	if state.Profile == nil {
		return nil, common.ErrorNoProfile
	}

	records := SortRecords(state.Records)
	res := make([]AnnotatedRecord, 0, len(records))
	for _, record := range records {
		res = append(res, Annotate(state.Profile, record))
	}
	return res, nil
}

// Series returns the (age, z-score) points of one measurement across the
// records, oldest first. Records without that measurement are skipped.
func (j *Journal) Series(ctx context.Context, measurementType model.MeasurementType) ([]model.SeriesPoint, error) {
	annotated, err := j.AnnotatedRecords(ctx)
	if err != nil {
		return nil, err
	}

	res := []model.SeriesPoint{}
	for _, record := range annotated {
		reading := record.Height
		if measurementType == model.Weight {
			reading = record.Weight
		}
		if reading.ZScore == nil {
			continue
		}
		res = append(res, model.SeriesPoint{AgeMonths: record.AgeMonths, Value: *reading.ZScore})
	}
	return res, nil
}

// Chart returns the reference curve sized for the records plus the child's
// own points for one measurement.
func (j *Journal) Chart(ctx context.Context, measurementType model.MeasurementType) ([]model.CurvePoint, []model.SeriesPoint, error) {
	annotated, err := j.AnnotatedRecords(ctx)
	if err != nil {
		return nil, nil, err
	}
	profile, err := j.Profile(ctx)
	if err != nil {
		return nil, nil, err
	}

	points := []model.SeriesPoint{}
	oldest := 0.0
	for _, record := range annotated {
		value := record.Value(measurementType)
		if value <= 0 {
			continue
		}
		points = append(points, model.SeriesPoint{AgeMonths: record.AgeMonths, Value: value})
		oldest = max(oldest, record.AgeMonths)
	}

	curve, err := lms.GenerateCurve(profile.Gender, measurementType, ChartMaxAge(oldest))
	if err != nil {
		return nil, nil, err
	}
	return curve, points, nil
}

func (j *Journal) SaveVaccine(ctx context.Context, vaccine model.VaccineRecord) (*model.VaccineRecord, error) {
	vaccine.VaccineName = strings.TrimSpace(vaccine.VaccineName)
	if vaccine.VaccineName == "" {
		return nil, fmt.Errorf("vaccine name is empty: %w", common.ErrorInvalidValue)
	}
	if vaccine.Date.IsZero() {
		vaccine.Date = j.today()
	}

	err := j.update(ctx, func(state *model.AppState) error {
		if vaccine.ID == "" {
			vaccine.ID = uuid.NewString()
			state.Vaccines = append(state.Vaccines, vaccine)
			return nil
		}
		index := slices.IndexFunc(state.Vaccines, func(v model.VaccineRecord) bool { return v.ID == vaccine.ID })
		if index < 0 {
			state.Vaccines = append(state.Vaccines, vaccine)
			return nil
		}
		state.Vaccines[index] = vaccine
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &vaccine, nil
}

func (j *Journal) DeleteVaccine(ctx context.Context, id string) error {
	return j.update(ctx, func(state *model.AppState) error {
		before := len(state.Vaccines)
		state.Vaccines = slices.DeleteFunc(state.Vaccines, func(v model.VaccineRecord) bool { return v.ID == id })
		if len(state.Vaccines) == before {
			return fmt.Errorf("vaccine %s: %w", id, common.ErrorNotFound)
		}
		return nil
	})
}

// Vaccines returns the vaccination history, newest first.
func (j *Journal) Vaccines(ctx context.Context) ([]model.VaccineRecord, error) {
	state, err := j.State(ctx)
	if err != nil {
		return nil, err
	}
	res := slices.Clone(state.Vaccines)
	slices.SortStableFunc(res, func(a, b model.VaccineRecord) int {
		return b.Date.Compare(a.Date.Time)
	})
	return res, nil
}

// Reset wipes the profile and every record.
func (j *Journal) Reset(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear store: %w", err)
	}
	utils.GetLogger(ctx).Info("journal reset")
	return nil
}

func (j *Journal) update(ctx context.Context, fn func(state *model.AppState) error) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	state, err := j.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	if err := fn(state); err != nil {
		return err
	}
	if err := j.store.Save(ctx, state); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// SortRecords returns a copy of the records ordered by date, oldest first.
func SortRecords(records []model.GrowthRecord) []model.GrowthRecord {
	res := slices.Clone(records)
	slices.SortStableFunc(res, func(a, b model.GrowthRecord) int {
		return a.Date.Compare(b.Date.Time)
	})
	return res
}

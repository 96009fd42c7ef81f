// ABOUTME: Food log operations scoped to the calling user
// ABOUTME: Add, list by day, partial update and delete

package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/2389/calorie-gateway/internal/events"
	"github.com/2389/calorie-gateway/internal/store"
)

// EntryInput describes a new food entry. An empty EntryDate means today.
type EntryInput struct {
	FoodName  string
	Calories  int
	ProteinG  *float64
	CarbsG    *float64
	FatG      *float64
	MealType  *store.MealType
	EntryDate string
}

// EntryQuery selects one day of the food log. An empty Date means today.
type EntryQuery struct {
	Date   string
	Limit  *int
	Offset *int
}

// EntryList is one page of a day's food log.
type EntryList struct {
	Date    string
	Entries []*store.FoodEntry
}

func validMealType(m store.MealType) bool {
	switch m {
	case store.MealBreakfast, store.MealLunch, store.MealDinner, store.MealSnack:
		return true
	}
	return false
}

func nutrientProblems(protein, carbs, fat *float64, mealType *store.MealType) []string {
	var problems []string
	if protein != nil && *protein < 0 {
		problems = append(problems, "Protein must be a non-negative number.")
	}
	if carbs != nil && *carbs < 0 {
		problems = append(problems, "Carbs must be a non-negative number.")
	}
	if fat != nil && *fat < 0 {
		problems = append(problems, "Fat must be a non-negative number.")
	}
	if mealType != nil && !validMealType(*mealType) {
		problems = append(problems, "Meal type must be one of breakfast, lunch, dinner, snack.")
	}
	return problems
}

// AddEntry logs a food item for userID.
func (s *Service) AddEntry(ctx context.Context, userID string, in EntryInput) (*store.FoodEntry, error) {
	var problems []string
	if strings.TrimSpace(in.FoodName) == "" {
		problems = append(problems, "Food name is required.")
	}
	if in.Calories < 0 {
		problems = append(problems, "Calories must be a non-negative integer.")
	}
	if in.EntryDate != "" && !validDate(in.EntryDate) {
		problems = append(problems, "entry_date must be in YYYY-MM-DD format.")
	}
	problems = append(problems, nutrientProblems(in.ProteinG, in.CarbsG, in.FatG, in.MealType)...)
	if len(problems) > 0 {
		return nil, validationError(problems...)
	}

	st, err := s.requireStore()
	if err != nil {
		return nil, err
	}

	entry := &store.FoodEntry{
		ID:        s.newID(),
		UserID:    userID,
		FoodName:  in.FoodName,
		Calories:  in.Calories,
		ProteinG:  in.ProteinG,
		CarbsG:    in.CarbsG,
		FatG:      in.FatG,
		MealType:  in.MealType,
		EntryDate: in.EntryDate,
	}
	if entry.EntryDate == "" {
		entry.EntryDate = s.Today()
	}

	if err := st.CreateFoodEntry(ctx, entry); err != nil {
		return nil, s.storageFailure("add food entry", err, "user_id", userID)
	}

	s.publish(ctx, events.TypeFoodEntryAdded, userID, entry)
	return entry, nil
}

// ListEntries returns a page of userID's entries for one day, newest first.
func (s *Service) ListEntries(ctx context.Context, userID string, q EntryQuery) (*EntryList, error) {
	var problems []string
	if q.Date != "" && !validDate(q.Date) {
		problems = append(problems, "date must be in YYYY-MM-DD format.")
	}
	limit, offset, problems := pagination(q.Limit, q.Offset, problems)
	if len(problems) > 0 {
		return nil, validationError(problems...)
	}

	st, err := s.requireStore()
	if err != nil {
		return nil, err
	}

	date := q.Date
	if date == "" {
		date = s.Today()
	}

	entries, err := st.ListFoodEntries(ctx, userID, store.FoodEntryFilter{Date: date, Limit: limit, Offset: offset})
	if err != nil {
		return nil, s.storageFailure("list food entries", err, "user_id", userID)
	}
	if entries == nil {
		entries = []*store.FoodEntry{}
	}
	return &EntryList{Date: date, Entries: entries}, nil
}

// UpdateEntry merges upd into an entry owned by userID.
func (s *Service) UpdateEntry(ctx context.Context, userID, entryID string, upd store.FoodEntryUpdate) (*store.FoodEntry, error) {
	if upd.Empty() {
		return nil, validationError("No fields provided to update.")
	}
	var problems []string
	if upd.FoodName != nil && strings.TrimSpace(*upd.FoodName) == "" {
		problems = append(problems, "Food name cannot be empty.")
	}
	if upd.Calories != nil && *upd.Calories < 0 {
		problems = append(problems, "Calories must be a non-negative integer.")
	}
	problems = append(problems, nutrientProblems(upd.ProteinG, upd.CarbsG, upd.FatG, upd.MealType)...)
	if len(problems) > 0 {
		return nil, validationError(problems...)
	}

	st, err := s.requireStore()
	if err != nil {
		return nil, err
	}

	entry, err := st.UpdateFoodEntry(ctx, userID, entryID, upd)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound(fmt.Sprintf("Entry %s not found or you don't have permission to update it.", entryID))
	}
	if err != nil {
		return nil, s.storageFailure("update food entry", err, "user_id", userID, "entry_id", entryID)
	}
	return entry, nil
}

// DeleteEntry removes an entry owned by userID.
func (s *Service) DeleteEntry(ctx context.Context, userID, entryID string) error {
	st, err := s.requireStore()
	if err != nil {
		return err
	}

	err = st.DeleteFoodEntry(ctx, userID, entryID)
	if errors.Is(err, store.ErrNotFound) {
		return notFound(fmt.Sprintf("Entry %s not found or you don't have permission to delete it.", entryID))
	}
	if err != nil {
		return s.storageFailure("delete food entry", err, "user_id", userID, "entry_id", entryID)
	}
	return nil
}

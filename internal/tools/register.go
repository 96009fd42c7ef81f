// ABOUTME: Registers every calorie tracker tool with a Registry
// ABOUTME: Tool order here is the order clients see in tools/list

package tools

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/2389/calorie-gateway/internal/tracker"
)

// RegisterAll adds the food log, profile and user administration tools.
func RegisterAll(reg *Registry, svc *tracker.Service, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	h := &handlers{svc: svc, logger: logger.With("component", "tools")}

	for _, t := range []Tool{
		{
			Name:        "list_entries",
			Description: "List food entries for a specific date with pagination. Returns daily calorie intake and nutritional data.",
			InputSchema: json.RawMessage(listEntriesSchema),
			Handler:     h.listEntries,
		},
		{
			Name:        "add_entry",
			Description: "Add a new food entry to the calorie tracker",
			InputSchema: json.RawMessage(addEntrySchema),
			Handler:     h.addEntry,
		},
		{
			Name:        "update_entry",
			Description: "Update an existing food entry",
			InputSchema: json.RawMessage(updateEntrySchema),
			Handler:     h.updateEntry,
		},
		{
			Name:        "delete_entry",
			Description: "Delete a food entry",
			InputSchema: json.RawMessage(deleteEntrySchema),
			Handler:     h.deleteEntry,
		},
		{
			Name:        "register_user",
			Description: "Register a new user (admin only)",
			InputSchema: json.RawMessage(registerUserSchema),
			AdminOnly:   true,
			Handler:     h.registerUser,
		},
		{
			Name:        "revoke_user",
			Description: "Revoke a user's API key by user ID or email (admin only)",
			InputSchema: json.RawMessage(revokeUserSchema),
			AdminOnly:   true,
			Handler:     h.revokeUser,
		},
		{
			Name:        "get_profile",
			Description: "Get current user profile with calculated BMR/TDEE metrics",
			InputSchema: json.RawMessage(getProfileSchema),
			Handler:     h.getProfile,
		},
		{
			Name:        "update_profile",
			Description: "Update user profile information and tracking data",
			InputSchema: json.RawMessage(updateProfileSchema),
			Handler:     h.updateProfile,
		},
		{
			Name:        "get_profile_history",
			Description: "Get historical profile tracking data with optional date filtering",
			InputSchema: json.RawMessage(profileHistorySchema),
			Handler:     h.profileHistory,
		},
	} {
		if err := reg.Register(t); err != nil {
			return fmt.Errorf("registering %s: %w", t.Name, err)
		}
	}
	return nil
}

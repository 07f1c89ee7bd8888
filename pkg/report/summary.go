package report

import (
	"fmt"
	"sort"

	"github.com/entrhq/wowstat/pkg/character"
)

// VaultThresholds are the activity counts that unlock each vault slot of
// one row.
var VaultThresholds = [...]int{1, 4, 8}

// MaxVaultSlots is the number of vault slots across the delve and dungeon
// rows.
const MaxVaultSlots = 2 * len(VaultThresholds)

var slotNames = map[int]string{
	1:  "Head",
	2:  "Neck",
	3:  "Shoulder",
	5:  "Chest",
	6:  "Waist",
	7:  "Legs",
	8:  "Feet",
	9:  "Wrist",
	10: "Hands",
	11: "Ring1",
	12: "Ring2",
	13: "Trinket1",
	14: "Trinket2",
	15: "Back",
	16: "MainHand",
	17: "OffHand",
}

// SlotName returns the equipment slot name for an inventory slot id.
func SlotName(id int) string {
	if name, ok := slotNames[id]; ok {
		return name
	}
	return fmt.Sprintf("Slot%d", id)
}

// Status summarizes a character's weekly progress.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusProgress Status = "in progress"
	StatusDone     Status = "done"
)

// Row is the summary of one character.
type Row struct {
	Key             string   `json:"key" yaml:"key"`
	ItemLevel       float64  `json:"item_level" yaml:"item_level"`
	VaultSlots      int      `json:"vault_slots" yaml:"vault_slots"`
	VaultT8Plus     int      `json:"vault_t8_plus" yaml:"vault_t8_plus"`
	Timewalk        int      `json:"timewalk" yaml:"timewalk"`
	UpgradeCurrent  int      `json:"upgrade_current" yaml:"upgrade_current"`
	UpgradeMax      int      `json:"upgrade_max" yaml:"upgrade_max"`
	MissingEnchants []string `json:"missing_enchants,omitempty" yaml:"missing_enchants,omitempty"`
	MissingSockets  []string `json:"missing_sockets,omitempty" yaml:"missing_sockets,omitempty"`
	EmptySockets    []string `json:"empty_sockets,omitempty" yaml:"empty_sockets,omitempty"`
	Status          Status   `json:"status" yaml:"status"`
}

// Totals aggregates every row.
type Totals struct {
	Characters      int `json:"characters" yaml:"characters"`
	VaultSlots      int `json:"vault_slots" yaml:"vault_slots"`
	VaultT8Plus     int `json:"vault_t8_plus" yaml:"vault_t8_plus"`
	MissingEnchants int `json:"missing_enchants" yaml:"missing_enchants"`
	MissingSockets  int `json:"missing_sockets" yaml:"missing_sockets"`
	Done            int `json:"done" yaml:"done"`
}

// Summary is the weekly gear and vault report.
type Summary struct {
	WeekID string `json:"week_id" yaml:"week_id"`
	Rows   []Row  `json:"rows" yaml:"rows"`
	Totals Totals `json:"totals" yaml:"totals"`
}

// VaultSlots returns the slots one vault row unlocks for count activities.
func VaultSlots(count int) int {
	slots := 0
	for _, threshold := range VaultThresholds {
		if count >= threshold {
			slots++
		}
	}
	return slots
}

// Summarize builds the report for chars, ordered by item level descending
// then key.
func Summarize(weekID string, chars []*character.Character) Summary {
	s := Summary{WeekID: weekID, Rows: make([]Row, 0, len(chars))}

	for _, c := range chars {
		row := Row{
			Key:             c.Key(),
			ItemLevel:       c.ItemLevel,
			VaultSlots:      VaultSlots(c.Delves) + VaultSlots(c.Dungeons),
			VaultT8Plus:     c.VaultT8Plus,
			Timewalk:        c.Timewalk,
			UpgradeCurrent:  c.UpgradeCurrent,
			UpgradeMax:      c.UpgradeMax,
			MissingEnchants: slotList(c.MissingEnchants),
			MissingSockets:  slotList(c.MissingSockets),
			EmptySockets:    slotList(c.EmptySockets),
		}
		row.Status = status(row)

		s.Rows = append(s.Rows, row)
		s.Totals.VaultSlots += row.VaultSlots
		s.Totals.VaultT8Plus += row.VaultT8Plus
		s.Totals.MissingEnchants += max(c.EnchantMissingCount, len(row.MissingEnchants))
		s.Totals.MissingSockets += max(c.SocketMissingCount, len(row.MissingSockets))
		if row.Status == StatusDone {
			s.Totals.Done++
		}
	}
	s.Totals.Characters = len(s.Rows)

	sort.SliceStable(s.Rows, func(i, j int) bool {
		if s.Rows[i].ItemLevel != s.Rows[j].ItemLevel {
			return s.Rows[i].ItemLevel > s.Rows[j].ItemLevel
		}
		return s.Rows[i].Key < s.Rows[j].Key
	})
	return s
}

func status(r Row) Status {
	switch {
	case r.VaultSlots >= MaxVaultSlots && r.Timewalk >= character.MaxTimewalk:
		return StatusDone
	case r.VaultSlots > 0 || r.Timewalk > 0:
		return StatusProgress
	default:
		return StatusIdle
	}
}

func slotList(ids []int) []string {
	if len(ids) == 0 {
		return nil
	}
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = SlotName(id)
	}
	return names
}

package routefinder

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// DenyRule rejects itineraries routed through a known-illogical hub: a
// {from, via, to} triple where the via station lies in the wrong
// direction.
type DenyRule struct {
	From int   `yaml:"from" validate:"required"`
	Via  []int `yaml:"via" validate:"required,min=1"`
	To   int   `yaml:"to" validate:"required"`
}

// BackwardsRule generalizes a deny triple over named station groups:
// going through any station of ViaGroup is backwards when the origin is in
// one of FromGroups and the destination in one of ToGroups.
type BackwardsRule struct {
	ViaGroup   string   `yaml:"via_group" validate:"required"`
	FromGroups []string `yaml:"from_groups" validate:"required,min=1"`
	ToGroups   []string `yaml:"to_groups" validate:"required,min=1"`
}

// GeographyPolicy is the configurable routing-sanity data: which stations
// count as hubs worth exploring first, and which detours are known to be
// geographically absurd.
type GeographyPolicy struct {
	Hubs []int `yaml:"hubs"`

	DenyRules []DenyRule `yaml:"deny_rules" validate:"dive"`

	StationGroups  map[string][]int `yaml:"station_groups"`
	BackwardsRules []BackwardsRule  `yaml:"backwards_rules" validate:"dive"`
}

// DefaultGeographyPolicy covers the Turkish network: the high-traffic hubs
// plus the detours through İstanbul that double back on themselves.
func DefaultGeographyPolicy() *GeographyPolicy {
	return &GeographyPolicy{
		// Ankara, Söğütlüçeşme, Pendik, Eskişehir, Gebze, İzmit, İzmir, Adana
		Hubs: []int{98, 1325, 48, 87, 20, 1135, 180, 753},

		DenyRules: []DenyRule{
			{From: 1135, Via: []int{48, 1325}, To: 98},
			{From: 1135, Via: []int{48, 1325}, To: 87},
			{From: 98, Via: []int{48, 1325}, To: 1135},
			{From: 87, Via: []int{48, 1325}, To: 1135},
			{From: 180, Via: []int{48, 1325}, To: 98},
			{From: 180, Via: []int{48, 1325}, To: 87},
			{From: 98, Via: []int{48, 1325}, To: 180},
			{From: 87, Via: []int{48, 1325}, To: 180},
		},

		StationGroups: map[string][]int{
			"istanbul":  {48, 1325},
			"ankara":    {98},
			"izmit":     {1135},
			"eskisehir": {87},
			"izmir":     {180},
			"gebze":     {20},
		},

		BackwardsRules: []BackwardsRule{
			{ViaGroup: "istanbul", FromGroups: []string{"izmit"}, ToGroups: []string{"ankara", "eskisehir"}},
			{ViaGroup: "istanbul", FromGroups: []string{"ankara", "eskisehir"}, ToGroups: []string{"izmit"}},
		},
	}
}

// LoadGeographyPolicy reads a policy from a YAML file and validates it.
func LoadGeographyPolicy(path string) (*GeographyPolicy, error) {
	fileBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var policy GeographyPolicy
	if err := yaml.Unmarshal(fileBytes, &policy); err != nil {
		return nil, fmt.Errorf("failed to parse geography policy: %w", err)
	}

	if err := policy.Validate(); err != nil {
		return nil, err
	}

	return &policy, nil
}

func (p *GeographyPolicy) Validate() error {
	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		return err
	}

	for _, rule := range p.BackwardsRules {
		groups := append(append([]string{rule.ViaGroup}, rule.FromGroups...), rule.ToGroups...)
		for _, group := range groups {
			if _, exists := p.StationGroups[group]; !exists {
				return fmt.Errorf("backwards rule references undefined station group %q", group)
			}
		}
	}

	return nil
}

// IsIllogical reports whether routing from one station to another through
// the given intermediate is a known-absurd detour.
func (p *GeographyPolicy) IsIllogical(fromID int, viaID int, toID int) bool {
	for _, rule := range p.DenyRules {
		if rule.From == fromID && rule.To == toID && slices.Contains(rule.Via, viaID) {
			return true
		}
	}

	for _, rule := range p.BackwardsRules {
		if !slices.Contains(p.StationGroups[rule.ViaGroup], viaID) {
			continue
		}

		if p.inAnyGroup(rule.FromGroups, fromID) && p.inAnyGroup(rule.ToGroups, toID) {
			return true
		}
	}

	return false
}

func (p *GeographyPolicy) IsHub(stationID int) bool {
	return slices.Contains(p.Hubs, stationID)
}

func (p *GeographyPolicy) inAnyGroup(groups []string, stationID int) bool {
	for _, group := range groups {
		if slices.Contains(p.StationGroups[group], stationID) {
			return true
		}
	}

	return false
}

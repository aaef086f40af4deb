package marketplace

import (
	"encoding/json"

	"github.com/spagettikod/vsixinstaller/vscode"
)

type Query struct {
	Filters []Filter  `json:"filters"`
	Flags   QueryFlag `json:"flags"`
}

type Filter struct {
	Criteria []Criteria `json:"criteria"`
}

type Criteria struct {
	FilterType FilterType `json:"filterType"`
	Value      string     `json:"value"`
}

type FilterType int

type QueryFlag int

const (
	FlagIncludeVersions            QueryFlag = 0x1
	FlagIncludeFiles               QueryFlag = 0x2
	FlagIncludeCategoryAndTags     QueryFlag = 0x4
	FlagIncludeSharedAccounts      QueryFlag = 0x8
	FlagIncludeVersionProperties   QueryFlag = 0x10
	FlagExcludeNonValidated        QueryFlag = 0x20
	FlagIncludeInstallationTargets QueryFlag = 0x40
	FlagIncludeAssetURI            QueryFlag = 0x80
	FlagIncludeStatistics          QueryFlag = 0x100
	FlagIncludeLatestVersionOnly   QueryFlag = 0x200
	FlagUnpublished                QueryFlag = 0x1000

	// DefaultFlags evaluates to 103.
	DefaultFlags = FlagIncludeVersions | FlagIncludeFiles | FlagIncludeCategoryAndTags | FlagExcludeNonValidated | FlagIncludeInstallationTargets

	FilterTypeTag           FilterType = 1
	FilterTypeExtensionID   FilterType = 4
	FilterTypeCategory      FilterType = 5
	FilterTypeExtensionName FilterType = 7
	FilterTypeTarget        FilterType = 8
	FilterTypeFeatured      FilterType = 9
	FilterTypeSearchText    FilterType = 10
)

func (f QueryFlag) Is(f2 QueryFlag) bool {
	return (f2 & f) == f2
}

// NewQuery returns a query matching a single extension by its unique ID.
func NewQuery(uid vscode.UniqueID) Query {
	return Query{
		Filters: []Filter{
			{
				Criteria: []Criteria{
					{FilterType: FilterTypeExtensionName, Value: uid.String()},
				},
			},
		},
		Flags: DefaultFlags,
	}
}

// CriteriaValues returns an array of values among all critera in the query matching the supplied filterType.
func (q Query) CriteriaValues(filterType FilterType) []string {
	values := []string{}
	for _, f := range q.Filters {
		for _, c := range f.Criteria {
			if c.FilterType == filterType {
				values = append(values, c.Value)
			}
		}
	}
	return values
}

func (q Query) ToJSON() []byte {
	qjson, _ := json.Marshal(q)
	return qjson
}

package dataaggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/sltraffic/pkg/ctdf"
)

var commuteRoutes = []ctdf.Route{
	{Group: "TO WORK", SiteID: 1555, Line: "30", Destination: "Solna"},
	{Group: "TO WORK", SiteID: 9531, Line: "40", Destination: "uppsala c"},
	{Group: "TO WORK", SiteID: 9531, Line: "41", Destination: "märsta"},
	{Group: "FROM WORK", SiteID: 9507, Line: "41", Destination: "södertälje centrum", Label: "Solna station"},
	{Group: "FROM WORK", SiteID: 9531, Line: "30", Destination: "sickla"},
	{Group: "FROM WORK", SiteID: 9507, Line: "41", Destination: "södertälje centrum"},
}

func TestBuildStopGroups(t *testing.T) {
	stopGroups := BuildStopGroups(commuteRoutes)

	assert.Equal(t, []int{1555, 9531, 9507}, stopGroups.SiteIDs)
	require.Len(t, stopGroups.Groups, 2)

	toWork := stopGroups.GetGroup("TO WORK")
	require.NotNil(t, toWork)
	require.Len(t, toWork.Sites, 2)
	assert.Equal(t, []ctdf.Filter{{Line: "30", Destination: "solna"}}, toWork.Sites[0].Filters)
	assert.Equal(t, []ctdf.Filter{{Line: "40", Destination: "uppsala c"}, {Line: "41", Destination: "märsta"}}, toWork.Sites[1].Filters)

	fromWork := stopGroups.GetGroup("FROM WORK")
	require.NotNil(t, fromWork)
	require.Len(t, fromWork.Sites, 2)
	assert.Equal(t, 9507, fromWork.Sites[0].SiteID)
	assert.Equal(t, "Solna station", fromWork.Sites[0].Label)
	assert.Len(t, fromWork.Sites[0].Filters, 1)

	assert.Nil(t, stopGroups.GetGroup("WEEKEND"))
}

func TestSiteFiltersAreUnionOfGroups(t *testing.T) {
	stopGroups := BuildStopGroups(commuteRoutes)

	union := stopGroups.SiteFilters(9531)
	assert.ElementsMatch(t, []ctdf.Filter{
		{Line: "40", Destination: "uppsala c"},
		{Line: "41", Destination: "märsta"},
		{Line: "30", Destination: "sickla"},
	}, union)

	for _, group := range stopGroups.Groups {
		site := group.GetSite(9531)
		require.NotNil(t, site)
		assert.Subset(t, union, site.Filters)
	}
}

func TestOrderedGroups(t *testing.T) {
	stopGroups := BuildStopGroups(append([]ctdf.Route{
		{Group: "WEEKEND", SiteID: 9001, Line: "11", Destination: "akalla"},
	}, commuteRoutes...))

	names := func(groups []*ctdf.StopGroup) []string {
		var result []string
		for _, group := range groups {
			result = append(result, group.Name)
		}
		return result
	}

	assert.Equal(t, []string{"WEEKEND", "TO WORK", "FROM WORK"}, names(stopGroups.OrderedGroups(nil)))
	assert.Equal(t, []string{"TO WORK", "FROM WORK", "WEEKEND"}, names(stopGroups.OrderedGroups([]string{"TO WORK", "MISSING", "FROM WORK", "TO WORK"})))
}

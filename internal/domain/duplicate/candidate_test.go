package duplicate

import "testing"

func TestSortByScore_DescendingStable(t *testing.T) {
	cs := []Candidate{
		{ID: "a", Score: 0.62},
		{ID: "b", Score: 0.94},
		{ID: "c", Score: 0.77},
		{ID: "d", Score: 0.77},
	}

	SortByScore(cs)

	wantOrder := []string{"b", "c", "d", "a"}
	for i, want := range wantOrder {
		if cs[i].ID != want {
			t.Errorf("position %d: got %s, want %s", i, cs[i].ID, want)
		}
	}
}

package usecases

import (
	"context"
	"fmt"
	"slices"
	"testing"
)

func TestSessionRegistry_ListQueue(t *testing.T) {
	tests := []struct {
		name           string
		trackCount     int
		page           int
		pageSize       int
		wantTitles     []string
		wantPage       int
		wantTotalPages int
		wantPageStart  int
	}{
		{
			name:           "no session",
			page:           1,
			wantTitles:     []string{},
			wantPage:       1,
			wantTotalPages: 1,
		},
		{
			name:           "first page starts with current track",
			trackCount:     5,
			page:           1,
			pageSize:       2,
			wantTitles:     []string{"Track 0", "Track 1"},
			wantPage:       1,
			wantTotalPages: 3,
		},
		{
			name:           "last partial page",
			trackCount:     5,
			page:           3,
			pageSize:       2,
			wantTitles:     []string{"Track 4"},
			wantPage:       3,
			wantTotalPages: 3,
			wantPageStart:  4,
		},
		{
			name:           "page beyond range clamps to last",
			trackCount:     5,
			page:           10,
			pageSize:       2,
			wantTitles:     []string{"Track 4"},
			wantPage:       3,
			wantTotalPages: 3,
			wantPageStart:  4,
		},
		{
			name:           "page below range clamps to first",
			trackCount:     3,
			page:           0,
			pageSize:       2,
			wantTitles:     []string{"Track 0", "Track 1"},
			wantPage:       1,
			wantTotalPages: 2,
		},
		{
			name:           "default page size",
			trackCount:     3,
			page:           1,
			wantTitles:     []string{"Track 0", "Track 1", "Track 2"},
			wantPage:       1,
			wantTotalPages: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestRegistry(defaultTestConfig())
			for i := range tt.trackCount {
				q := fmt.Sprint(i)
				tr.addSearch(q, q)
				if _, err := tr.Play(context.Background(), playInput(q)); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}

			output := tr.ListQueue(testGuildID, tt.page, tt.pageSize)

			if got := trackTitles(output.Tracks); !slices.Equal(got, tt.wantTitles) {
				t.Errorf("expected tracks %v, got %v", tt.wantTitles, got)
			}
			if output.Total != tt.trackCount {
				t.Errorf("expected total %d, got %d", tt.trackCount, output.Total)
			}
			if output.CurrentPage != tt.wantPage {
				t.Errorf("expected page %d, got %d", tt.wantPage, output.CurrentPage)
			}
			if output.TotalPages != tt.wantTotalPages {
				t.Errorf("expected %d pages, got %d", tt.wantTotalPages, output.TotalPages)
			}
			if output.PageStart != tt.wantPageStart {
				t.Errorf("expected page start %d, got %d", tt.wantPageStart, output.PageStart)
			}
		})
	}
}

func TestSessionRegistry_GetQueue_ReturnsCopy(t *testing.T) {
	tr := newTestRegistry(defaultTestConfig())
	startPlaying(tr)

	tracks := tr.GetQueue(testGuildID)
	tracks[0] = nil

	if tr.GetQueue(testGuildID)[0] == nil {
		t.Error("expected GetQueue to return a snapshot")
	}
}

package feedsinfra

import "testing"

func TestIsSportsStory(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		text string
		want bool
	}{
		{
			name: "two distinct keywords",
			text: "The quarterback threw a touchdown in the fourth quarter",
			want: true,
		},
		{
			name: "ambiguous school with one keyword",
			text: "Georgia Tech wins on a late field goal",
			want: true,
		},
		{
			name: "single keyword without school",
			text: "The startup's championship game against incumbents continues",
			want: false,
		},
		{
			name: "genuine technology story",
			text: "New AI model improves code generation benchmarks",
			want: false,
		},
		{
			name: "school name without any sports keyword",
			text: "Virginia Tech researchers publish robotics paper",
			want: false,
		},
		{
			name: "repeated keyword counts once",
			text: "touchdown after touchdown after touchdown",
			want: false,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := isSportsStory(tc.text); got != tc.want {
				t.Fatalf("isSportsStory(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

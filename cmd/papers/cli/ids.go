package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParseIDs parses paper id lists as given on the command line:
// "1", "1,2", "1-3,5". Ranges are inclusive; duplicates collapse and the
// result is sorted ascending.
func ParseIDs(s string) ([]uint, error) {
	seen := make(map[uint]struct{})

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if start, end, ok := strings.Cut(part, "-"); ok {
			from, err := parseID(start)
			if err != nil {
				return nil, fmt.Errorf("invalid id range %q: %w", part, err)
			}
			to, err := parseID(end)
			if err != nil {
				return nil, fmt.Errorf("invalid id range %q: %w", part, err)
			}
			if from > to {
				return nil, fmt.Errorf("invalid id range %q: start is after end", part)
			}
			for id := from; id <= to; id++ {
				seen[id] = struct{}{}
			}
		} else {
			id, err := parseID(part)
			if err != nil {
				return nil, fmt.Errorf("invalid id %q: %w", part, err)
			}
			seen[id] = struct{}{}
		}
	}

	if len(seen) == 0 {
		return nil, fmt.Errorf("no ids in %q", s)
	}

	ids := make([]uint, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, fmt.Errorf("ids start at 1")
	}
	return uint(id), nil
}

package ecs

import "sort"

// StorageStats is a snapshot of storage occupancy.
type StorageStats struct {
	TotalEntityCount int
	ComponentCount   int
	SingletonCount   int
	Components       []ComponentStats
	SingletonTypes   []string
}

// ComponentStats describes one component store.
type ComponentStats struct {
	Type  string
	Count int
}

// CollectStats gathers a StorageStats snapshot. Component entries are sorted by type name.
func (s *Storage) CollectStats() StorageStats {
	stats := StorageStats{
		TotalEntityCount: s.count,
		SingletonCount:   len(s.singletons),
		SingletonTypes:   s.singletonTypes(),
	}

	for _, t := range s.storeOrder {
		store := s.stores[t]
		stats.Components = append(stats.Components, ComponentStats{
			Type:  t.String(),
			Count: store.Len(),
		})
		stats.ComponentCount += store.Len()
	}

	sort.Slice(stats.Components, func(i, j int) bool {
		return stats.Components[i].Type < stats.Components[j].Type
	})
	return stats
}

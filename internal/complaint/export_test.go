package complaint

// CategoryID reports the id the in-memory store assigned to a category name.
func CategoryID(r Repository, name string) (int32, bool) {
	mem, ok := r.(*memoryRepository)
	if !ok {
		return 0, false
	}
	mem.mu.Lock()
	defer mem.mu.Unlock()
	id, ok := mem.categories[name]
	return id, ok
}

package mocks

import (
	"sort"

	"github.com/taskify-app/taskify-api/internal/domain"
)

func sortCollaborators(cs []domain.Collaborator) {
	sort.Slice(cs, func(i, j int) bool { return cs[i].Email < cs[j].Email })
}

func sortListViews(views []domain.ListView) {
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].Fixed != views[j].Fixed {
			return views[i].Fixed
		}
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})
}

func sortTasks(tasks []*domain.Task, less func(a, b *domain.Task) bool) {
	sort.SliceStable(tasks, func(i, j int) bool { return less(tasks[i], tasks[j]) })
}

package query

import (
	"fmt"
	"testing"

	"github.com/nibzard/task-manager/internal/task"
)

func benchTasks(n int) []task.Task {
	tasks := make([]task.Task, n)
	statuses := task.Statuses
	for i := range tasks {
		tasks[i] = task.New(i+1, fmt.Sprintf("Task number %d", i+1), fmt.Sprintf("proj-%d", i%7), "2026-01-01")
		tasks[i].Status = statuses[i%len(statuses)]
		if i%3 != 0 {
			tasks[i].Deadline = fmt.Sprintf("2026-%02d-%02d", i%12+1, i%28+1)
		}
		tasks[i].Tags = []string{fmt.Sprintf("tag%d", i%5)}
	}
	return tasks
}

func BenchmarkFilter(b *testing.B) {
	tasks := benchTasks(1000)
	c := Criteria{Status: "TODO", Tags: []string{"tag1", "tag3"}, DeadlineBefore: "2026-06-30"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Filter(tasks, c)
	}
}

func BenchmarkSearch(b *testing.B) {
	tasks := benchTasks(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Search(tasks, "number 99", SearchAll)
	}
}

func BenchmarkSortByDeadline(b *testing.B) {
	tasks := benchTasks(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = SortByDeadline(tasks)
	}
}

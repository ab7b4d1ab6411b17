package dto

// TaskFilterItem uses "all" for an unconstrained status or priority.
type TaskFilterItem struct {
	Status     string `json:"status"`
	Priority   string `json:"priority"`
	SearchTerm string `json:"searchTerm"`
}

type UpdateTaskFilterRequest struct {
	Status     *string `json:"status"`
	Priority   *string `json:"priority"`
	SearchTerm *string `json:"searchTerm"`
}

// TaskSortItem uses "none" when the view keeps collection order.
type TaskSortItem struct {
	SortBy string `json:"sortBy"`
	Order  string `json:"order"`
}

type UpdateTaskSortRequest struct {
	SortBy *string `json:"sortBy"`
	Order  *string `json:"order"`
}

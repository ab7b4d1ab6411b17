package tests

// The hand-written taskServiceMock in service_mock_test.go mirrors what
// mockery produces for ports.TaskService.
//
// Usage:
//   go generate ./internal/adapter/http/handlers/tests
//
//go:generate mockery --name TaskService --dir ../../../../core/ports --output ./mocks --outpkg mocks --filename task_service_mock.go --with-expecter
//go:generate mockery --name TaskStore --dir ../../../../core/ports --output ./mocks --outpkg mocks --filename task_store_mock.go --with-expecter

package apierrors

const (
	MsgInvalidTaskPayload = "invalidTaskPayload"
	MsgInvalidFilter      = "invalidFilter"
	MsgInvalidSort        = "invalidSort"
	MsgTaskNotFound       = "taskNotFound"
	MsgValidationFailed   = "validationFailed"
	MsgTasksLoading       = "tasksLoading"
	MsgServiceClosed      = "serviceClosed"
	MsgFailCreateTask     = "failCreateTask"
	MsgFailUpdateTask     = "failUpdateTask"
	MsgFailDeleteTask     = "failDeleteTask"
	MsgFailResetTasks     = "failResetTasks"
)

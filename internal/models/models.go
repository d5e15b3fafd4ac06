package models

// All lists every model in migration order. Parents come before
// children so foreign keys resolve.
var All = []interface{}{
	&User{},
	&Task{},
	&TaskNote{},
	&TaskAttachment{},
}

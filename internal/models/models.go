package models

// All returns every model managed by migrations.
func All() []interface{} {
	return []interface{}{
		&Student{},
		&Staff{},
		&Scholarship{},
		&Application{},
		&ApplicationDocument{},
		&Notification{},
		&EmailLog{},
		&ActivityLog{},
		&SystemSetting{},
	}
}

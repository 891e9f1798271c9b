package patient

// Patient mirrors the doctor record but lives in its own id space.
type Patient struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName string `gorm:"column:first_name;type:varchar(100)" json:"firstName"`
	LastName  string `gorm:"column:last_name;type:varchar(100)" json:"lastName"`
	Age       int    `gorm:"column:age" json:"age"`
	Email     string `gorm:"column:email;type:varchar(255)" json:"email"`
}

func (Patient) TableName() string {
	return "patients"
}

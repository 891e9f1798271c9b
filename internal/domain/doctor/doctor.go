package doctor

// MinimumAge is the domain rule for practising doctors. It is documented
// here but not enforced on creation.
const MinimumAge = 18

type Doctor struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName string `gorm:"column:first_name;type:varchar(100)" json:"firstName"`
	LastName  string `gorm:"column:last_name;type:varchar(100)" json:"lastName"`
	Age       int    `gorm:"column:age" json:"age"`
	Email     string `gorm:"column:email;type:varchar(255)" json:"email"`
}

func (Doctor) TableName() string {
	return "doctors"
}

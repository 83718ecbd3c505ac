package dbmodels

type Project struct {
	BaseCompanyModel
	Name       string       `gorm:"type:varchar(255)"`
	Address    string       `gorm:"type:varchar(512)"`
	CreatorID  string       `gorm:"type:varchar(36);index"`
	Creator    *CompanyUser `gorm:"foreignKey:CreatorID"`
	IsArchived bool
	Members    []ProjectMember `gorm:"foreignKey:ProjectID"`
}

type ProjectMember struct {
	BaseCompanyModel
	ProjectID string       `gorm:"type:varchar(36);index:idx_project_member,unique"`
	UserID    string       `gorm:"type:varchar(36);index:idx_project_member,unique"`
	User      *CompanyUser `gorm:"foreignKey:UserID"`
}

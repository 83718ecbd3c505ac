package companyusers

import (
	"pm-tools-backend/db"
	companyusersstore "pm-tools-backend/lib/company/users/store"
	"pm-tools-backend/models"
	usersapimodels "pm-tools-backend/models/api/users"
)

type Provider interface {
	List(companyID string) (list []usersapimodels.UserView, err error)
	GetByID(companyID, id string) (view usersapimodels.UserView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: companyusersstore.NewInstance(db.DB),
	}
}

type impl struct {
	store companyusersstore.Provider
}

func (i impl) List(companyID string) (list []usersapimodels.UserView, err error) {
	recs, err := i.store.List(companyID)
	if err != nil {
		return nil, err
	}
	list = make([]usersapimodels.UserView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, usersapimodels.UserConvert(rec))
	}
	return list, nil
}

func (i impl) GetByID(companyID, id string) (view usersapimodels.UserView, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return usersapimodels.UserView{}, err
	}
	if rec == nil || rec.CompanyID != companyID {
		return usersapimodels.UserView{}, models.ErrNotFound
	}
	return usersapimodels.UserConvert(*rec), nil
}

// Package hotel 提供酒店和房间管理业务逻辑
package hotel

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/EduRoDev/quantum-saas/internal/common/errors"
	"github.com/EduRoDev/quantum-saas/internal/common/logger"
	"github.com/EduRoDev/quantum-saas/internal/models"
	"github.com/EduRoDev/quantum-saas/internal/repository"
)

// HotelService 酒店服务
type HotelService struct {
	db        *gorm.DB
	hotelRepo *repository.HotelRepository
	roomRepo  *repository.RoomRepository
}

// NewHotelService 创建酒店服务
func NewHotelService(db *gorm.DB) *HotelService {
	return &HotelService{
		db:        db,
		hotelRepo: repository.NewHotelRepository(db),
		roomRepo:  repository.NewRoomRepository(db),
	}
}

// CreateHotelRequest 创建酒店请求
type CreateHotelRequest struct {
	Name        string  `json:"name" binding:"required"`
	Type        string  `json:"type"`
	Country     string  `json:"country" binding:"required"`
	City        string  `json:"city" binding:"required"`
	Address     string  `json:"address" binding:"required"`
	Nit         *string `json:"nit"`
	Description *string `json:"description"`
}

// UpdateHotelRequest 更新酒店请求
type UpdateHotelRequest struct {
	Name        *string `json:"name"`
	Type        *string `json:"type"`
	Country     *string `json:"country"`
	City        *string `json:"city"`
	Address     *string `json:"address"`
	Nit         *string `json:"nit"`
	Description *string `json:"description"`
}

// HotelInfo 酒店信息
type HotelInfo struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	TypeName    string     `json:"type_name"`
	Country     string     `json:"country"`
	City        string     `json:"city"`
	Address     string     `json:"address"`
	Nit         *string    `json:"nit,omitempty"`
	Description *string    `json:"description,omitempty"`
	RoomCount   int        `json:"room_count"`
	Rooms       []RoomInfo `json:"rooms,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateHotel 创建酒店
func (s *HotelService) CreateHotel(ctx context.Context, req *CreateHotelRequest) (*HotelInfo, error) {
	if req.Type == "" {
		req.Type = models.HotelTypeHotel
	}
	if !validHotelType(req.Type) {
		return nil, errors.ErrInvalidParams.WithMessage("无效的酒店类型")
	}

	hotel := &models.Hotel{
		Name:        req.Name,
		Type:        req.Type,
		Country:     req.Country,
		City:        req.City,
		Address:     req.Address,
		Nit:         req.Nit,
		Description: req.Description,
	}
	if err := s.hotelRepo.Create(ctx, hotel); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("创建酒店成功", logger.HotelID(hotel.ID), logger.String("name", hotel.Name))
	return s.convertHotelInfo(hotel, false), nil
}

// GetHotel 获取酒店详情，含房间列表
func (s *HotelService) GetHotel(ctx context.Context, id int64) (*HotelInfo, error) {
	hotel, err := s.hotelRepo.GetByIDWithRooms(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrHotelNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return s.convertHotelInfo(hotel, true), nil
}

// UpdateHotel 更新酒店
func (s *HotelService) UpdateHotel(ctx context.Context, id int64, req *UpdateHotelRequest) (*HotelInfo, error) {
	if _, err := s.hotelRepo.GetByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrHotelNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	fields := make(map[string]interface{})
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Type != nil {
		if !validHotelType(*req.Type) {
			return nil, errors.ErrInvalidParams.WithMessage("无效的酒店类型")
		}
		fields["type"] = *req.Type
	}
	if req.Country != nil {
		fields["country"] = *req.Country
	}
	if req.City != nil {
		fields["city"] = *req.City
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.Nit != nil {
		fields["nit"] = *req.Nit
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}

	if len(fields) > 0 {
		if err := s.hotelRepo.UpdateFields(ctx, id, fields); err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
	}
	return s.GetHotel(ctx, id)
}

// DeleteHotel 删除酒店，存在房间时拒绝
func (s *HotelService) DeleteHotel(ctx context.Context, id int64) error {
	if _, err := s.hotelRepo.GetByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrHotelNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	has, err := s.hotelRepo.HasRooms(ctx, id)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if has {
		return errors.ErrHotelHasRooms
	}

	if err := s.hotelRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("删除酒店成功", logger.HotelID(id))
	return nil
}

// ListHotels 分页查询酒店列表
func (s *HotelService) ListHotels(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]*HotelInfo, int64, error) {
	offset := (page - 1) * pageSize
	list, total, err := s.hotelRepo.List(ctx, offset, pageSize, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}

	infos := make([]*HotelInfo, 0, len(list))
	for _, hotel := range list {
		infos = append(infos, s.convertHotelInfo(hotel, false))
	}
	return infos, total, nil
}

// convertHotelInfo 转换为酒店信息
func (s *HotelService) convertHotelInfo(hotel *models.Hotel, withRooms bool) *HotelInfo {
	info := &HotelInfo{
		ID:          hotel.ID,
		Name:        hotel.Name,
		Type:        hotel.Type,
		TypeName:    getHotelTypeName(hotel.Type),
		Country:     hotel.Country,
		City:        hotel.City,
		Address:     hotel.Address,
		Nit:         hotel.Nit,
		Description: hotel.Description,
		RoomCount:   len(hotel.Rooms),
		CreatedAt:   hotel.CreatedAt,
	}
	if withRooms {
		info.Rooms = make([]RoomInfo, 0, len(hotel.Rooms))
		for i := range hotel.Rooms {
			info.Rooms = append(info.Rooms, *convertRoomInfo(&hotel.Rooms[i], nil))
		}
	}
	return info
}

// validHotelType 校验酒店类型
func validHotelType(hotelType string) bool {
	switch hotelType {
	case models.HotelTypeHotel, models.HotelTypeHostel, models.HotelTypeMotel,
		models.HotelTypeAirbnb, models.HotelTypeOther:
		return true
	}
	return false
}

// getHotelTypeName 获取酒店类型名称
func getHotelTypeName(hotelType string) string {
	switch hotelType {
	case models.HotelTypeHotel:
		return "酒店"
	case models.HotelTypeHostel:
		return "青年旅舍"
	case models.HotelTypeMotel:
		return "汽车旅馆"
	case models.HotelTypeAirbnb:
		return "民宿"
	case models.HotelTypeOther:
		return "其他"
	default:
		return "未知"
	}
}

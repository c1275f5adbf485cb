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

// RoomService 房间服务
type RoomService struct {
	db        *gorm.DB
	roomRepo  *repository.RoomRepository
	hotelRepo *repository.HotelRepository
}

// NewRoomService 创建房间服务
func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{
		db:        db,
		roomRepo:  repository.NewRoomRepository(db),
		hotelRepo: repository.NewHotelRepository(db),
	}
}

// CreateRoomRequest 创建房间请求
type CreateRoomRequest struct {
	HotelID     int64   `json:"hotel_id" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Price       float64 `json:"price" binding:"required"`
	Capacity    int     `json:"capacity" binding:"required"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

// UpdateRoomRequest 更新房间请求
type UpdateRoomRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Capacity    *int     `json:"capacity"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
}

// RoomInfo 房间信息
type RoomInfo struct {
	ID          int64     `json:"id"`
	HotelID     int64     `json:"hotel_id"`
	HotelName   string    `json:"hotel_name,omitempty"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Capacity    int       `json:"capacity"`
	Description *string   `json:"description,omitempty"`
	Image       *string   `json:"image,omitempty"`
	Status      string    `json:"status"`
	StatusName  string    `json:"status_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateRoom 创建房间，初始状态为 free
func (s *RoomService) CreateRoom(ctx context.Context, req *CreateRoomRequest) (*RoomInfo, error) {
	if req.Price <= 0 {
		return nil, errors.ErrInvalidParams.WithMessage("房间价格必须大于零")
	}
	if req.Capacity <= 0 {
		return nil, errors.ErrInvalidParams.WithMessage("房间容量必须大于零")
	}

	hotel, err := s.hotelRepo.GetByID(ctx, req.HotelID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrHotelNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	room := &models.Room{
		HotelID:     hotel.ID,
		Name:        req.Name,
		Price:       req.Price,
		Capacity:    req.Capacity,
		Description: req.Description,
		Image:       req.Image,
		Status:      models.RoomStatusFree,
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("创建房间成功", logger.RoomID(room.ID), logger.HotelID(hotel.ID))
	return convertRoomInfo(room, hotel), nil
}

// GetRoom 获取房间详情
func (s *RoomService) GetRoom(ctx context.Context, id int64) (*RoomInfo, error) {
	room, err := s.roomRepo.GetByIDWithHotel(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return convertRoomInfo(room, room.Hotel), nil
}

// UpdateRoom 更新房间。房间状态由预订和支付派生，不接受直接修改。
func (s *RoomService) UpdateRoom(ctx context.Context, id int64, req *UpdateRoomRequest) (*RoomInfo, error) {
	if _, err := s.roomRepo.GetByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	fields := make(map[string]interface{})
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, errors.ErrInvalidParams.WithMessage("房间价格必须大于零")
		}
		fields["price"] = *req.Price
	}
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			return nil, errors.ErrInvalidParams.WithMessage("房间容量必须大于零")
		}
		fields["capacity"] = *req.Capacity
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Image != nil {
		fields["image"] = *req.Image
	}

	if len(fields) > 0 {
		if err := s.roomRepo.UpdateFields(ctx, id, fields); err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
	}
	return s.GetRoom(ctx, id)
}

// DeleteRoom 删除房间，存在任何预订记录时拒绝
func (s *RoomService) DeleteRoom(ctx context.Context, id int64) error {
	if _, err := s.roomRepo.GetByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrRoomNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	has, err := s.roomRepo.HasReservations(ctx, id)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if has {
		return errors.ErrRoomHasReservations
	}

	if err := s.roomRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("删除房间成功", logger.RoomID(id))
	return nil
}

// ListRooms 分页查询房间列表
func (s *RoomService) ListRooms(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]*RoomInfo, int64, error) {
	offset := (page - 1) * pageSize
	list, total, err := s.roomRepo.List(ctx, offset, pageSize, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}

	infos := make([]*RoomInfo, 0, len(list))
	for _, room := range list {
		infos = append(infos, convertRoomInfo(room, room.Hotel))
	}
	return infos, total, nil
}

// ListFreeByHotel 查询酒店的空闲房间
func (s *RoomService) ListFreeByHotel(ctx context.Context, hotelID int64) ([]*RoomInfo, error) {
	if _, err := s.hotelRepo.GetByID(ctx, hotelID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrHotelNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	list, err := s.roomRepo.ListFreeByHotel(ctx, hotelID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	infos := make([]*RoomInfo, 0, len(list))
	for _, room := range list {
		infos = append(infos, convertRoomInfo(room, nil))
	}
	return infos, nil
}

// convertRoomInfo 转换为房间信息
func convertRoomInfo(room *models.Room, hotel *models.Hotel) *RoomInfo {
	info := &RoomInfo{
		ID:          room.ID,
		HotelID:     room.HotelID,
		Name:        room.Name,
		Price:       room.Price,
		Capacity:    room.Capacity,
		Description: room.Description,
		Image:       room.Image,
		Status:      room.Status,
		StatusName:  getRoomStatusName(room.Status),
		CreatedAt:   room.CreatedAt,
	}
	if hotel != nil {
		info.HotelName = hotel.Name
	}
	return info
}

// getRoomStatusName 获取房间状态名称
func getRoomStatusName(status string) string {
	switch status {
	case models.RoomStatusFree:
		return "空闲"
	case models.RoomStatusBooked:
		return "已预订"
	case models.RoomStatusBusy:
		return "入住中"
	default:
		return "未知"
	}
}

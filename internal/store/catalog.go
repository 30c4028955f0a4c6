package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-booking-backend/internal/apperror"
	"hotel-booking-backend/internal/model"
	"hotel-booking-backend/internal/parse"
)

func orderHotels(db *gorm.DB) *gorm.DB {
	return db.Order("country ASC, title ASC")
}

// GetRoomBySlug loads a room with its kind and hotels.
func (s *gormStore) GetRoomBySlug(ctx context.Context, slug string) (*model.Room, error) {
	var room model.Room
	err := s.db.WithContext(ctx).
		Preload("Kind").
		Preload("Hotels", orderHotels).
		Where("slug = ?", slug).
		First(&room).Error
	if err != nil {
		return nil, translate(err, fmt.Sprintf("room %q", slug))
	}
	return &room, nil
}

// ListRooms returns one page of rooms ordered by title. A page past the end is NotFound.
func (s *gormStore) ListRooms(ctx context.Context, page, pageSize int) (Page[model.Room], error) {
	if page < 1 {
		page = 1
	}
	result := Page[model.Room]{Number: page, Size: pageSize}

	if err := s.db.WithContext(ctx).Model(&model.Room{}).Count(&result.Total).Error; err != nil {
		return result, fmt.Errorf("failed to count rooms: %w", err)
	}
	if page > result.NumPages() {
		return result, fmt.Errorf("rooms page %d: %w", page, apperror.ErrNotFound)
	}

	if err := s.db.WithContext(ctx).
		Preload("Kind").
		Order("title ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&result.Items).Error; err != nil {
		return result, fmt.Errorf("failed to list rooms: %w", err)
	}
	return result, nil
}

// ListHotels returns every hotel ordered by country, then title.
func (s *gormStore) ListHotels(ctx context.Context) ([]model.Hotel, error) {
	var hotels []model.Hotel
	if err := orderHotels(s.db.WithContext(ctx)).Find(&hotels).Error; err != nil {
		return nil, fmt.Errorf("failed to list hotels: %w", err)
	}
	return hotels, nil
}

func (s *gormStore) CountHotels(ctx context.Context) (int64, error) {
	return s.count(ctx, &model.Hotel{})
}

func (s *gormStore) CountRooms(ctx context.Context) (int64, error) {
	return s.count(ctx, &model.Room{})
}

func (s *gormStore) CountKinds(ctx context.Context) (int64, error) {
	return s.count(ctx, &model.RoomKind{})
}

func (s *gormStore) count(ctx context.Context, m any) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(m).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count %T: %w", m, err)
	}
	return n, nil
}

// SaveRoom creates or updates a room. The slug of an existing room is kept even when the
// caller changed the title or cleared the slug.
func (s *gormStore) SaveRoom(ctx context.Context, room *model.Room) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if room.ID != 0 {
			var existing model.Room
			err := tx.Select("id", "slug").First(&existing, room.ID).Error
			switch {
			case err == nil && existing.Slug != "":
				room.Slug = existing.Slug
			case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
				return translate(err, fmt.Sprintf("load room %d", room.ID))
			}
		}

		if err := tx.Omit(clause.Associations).Save(room).Error; err != nil {
			return translate(err, fmt.Sprintf("save room %q", room.Title))
		}

		if room.Hotels != nil {
			if err := tx.Model(room).Association("Hotels").Replace(room.Hotels); err != nil {
				return fmt.Errorf("failed to link hotels to room %q: %w", room.Title, err)
			}
		}
		return nil
	})
}

// UpsertCatalog applies a catalog snapshot transactionally. Hotels, kinds and rooms are keyed
// by title; invalid records are skipped with a warning.
func (s *gormStore) UpsertCatalog(ctx context.Context, feed CatalogFeed) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		hotels, err := upsertHotels(tx, feed.Hotels)
		if err != nil {
			return err
		}
		kinds, err := upsertKinds(tx, feed.Kinds)
		if err != nil {
			return err
		}
		return upsertRooms(tx, feed.Rooms, hotels, kinds)
	})
}

func upsertHotels(tx *gorm.DB, items []HotelItem) (map[string]*model.Hotel, error) {
	seen := make(map[string]bool)
	var hotels []model.Hotel
	for _, item := range items {
		country := model.Country(item.Country)
		switch {
		case item.Title == "" || len(item.Title) > model.TitleMaxLength:
			logrus.WithField("title", item.Title).Warn("Skipping hotel with invalid title")
			continue
		case !country.Valid():
			logrus.WithFields(logrus.Fields{"title": item.Title, "country": item.Country}).Warn("Skipping hotel with unknown country")
			continue
		case len(item.City) > model.CityMaxLength:
			logrus.WithField("title", item.Title).Warn("Skipping hotel with overlong city")
			continue
		case seen[item.Title]:
			continue
		}
		seen[item.Title] = true
		hotels = append(hotels, model.Hotel{Title: item.Title, Country: country, City: item.City})
	}

	if len(hotels) > 0 {
		logrus.Infof("Batch upserting %d hotels...", len(hotels))
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "title"}},
			DoUpdates: clause.AssignmentColumns([]string{"country", "city", "updated_at"}),
		}).Omit(clause.Associations).Create(&hotels).Error; err != nil {
			return nil, fmt.Errorf("batch upsert hotels failed: %w", err)
		}
	}

	var all []model.Hotel
	if err := tx.Find(&all).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve hotels after upsert: %w", err)
	}
	byTitle := make(map[string]*model.Hotel, len(all))
	for i := range all {
		byTitle[all[i].Title] = &all[i]
	}
	return byTitle, nil
}

func upsertKinds(tx *gorm.DB, items []KindItem) (map[string]*model.RoomKind, error) {
	seen := make(map[string]bool)
	var kinds []model.RoomKind
	for _, item := range items {
		if item.Title == "" || item.MaxGuests < 1 || item.MaxGuests > model.MaxGuestsValue {
			logrus.WithFields(logrus.Fields{"title": item.Title, "max_guests": item.MaxGuests}).Warn("Skipping invalid room kind")
			continue
		}
		if seen[item.Title] {
			continue
		}
		seen[item.Title] = true
		kinds = append(kinds, model.RoomKind{Title: item.Title, MaxGuests: item.MaxGuests})
	}

	if len(kinds) > 0 {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "title"}},
			DoUpdates: clause.AssignmentColumns([]string{"max_guests", "updated_at"}),
		}).Create(&kinds).Error; err != nil {
			return nil, fmt.Errorf("batch upsert kinds failed: %w", err)
		}
	}

	var all []model.RoomKind
	if err := tx.Find(&all).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve kinds after upsert: %w", err)
	}
	byTitle := make(map[string]*model.RoomKind, len(all))
	for i := range all {
		byTitle[all[i].Title] = &all[i]
	}
	return byTitle, nil
}

func upsertRooms(tx *gorm.DB, items []RoomItem, hotels map[string]*model.Hotel, kinds map[string]*model.RoomKind) error {
	var existing []model.Room
	if err := tx.Select("id", "title", "slug").Find(&existing).Error; err != nil {
		return fmt.Errorf("failed to pre-fetch rooms: %w", err)
	}
	slugs := make(map[string]string, len(existing))
	for _, r := range existing {
		slugs[r.Title] = r.Slug
	}

	seen := make(map[string]bool)
	links := make(map[string][]*model.Hotel)
	var rooms []model.Room
	for _, item := range items {
		room, ok := prepareRoom(item, slugs, kinds)
		if !ok || seen[room.Title] {
			continue
		}
		seen[room.Title] = true
		rooms = append(rooms, room)

		for _, title := range item.Hotels {
			h, found := hotels[title]
			if !found {
				logrus.WithFields(logrus.Fields{"room": item.Title, "hotel": title}).Warn("Room refers to an unknown hotel")
				continue
			}
			links[room.Title] = append(links[room.Title], h)
		}
	}

	if len(rooms) == 0 {
		return nil
	}

	logrus.Infof("Batch upserting %d rooms...", len(rooms))
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "title"}},
		DoUpdates: clause.AssignmentColumns([]string{"kind_id", "max_guests", "description", "price", "main_image", "updated_at"}),
	}).Omit(clause.Associations).Create(&rooms).Error; err != nil {
		return translate(err, "batch upsert rooms")
	}

	titles := make([]string, 0, len(rooms))
	for _, r := range rooms {
		titles = append(titles, r.Title)
	}
	var saved []model.Room
	if err := tx.Where("title IN ?", titles).Find(&saved).Error; err != nil {
		return fmt.Errorf("failed to retrieve rooms after upsert: %w", err)
	}
	for i := range saved {
		hs, ok := links[saved[i].Title]
		if !ok {
			continue
		}
		if err := tx.Model(&saved[i]).Association("Hotels").Replace(hs); err != nil {
			return fmt.Errorf("failed to link hotels to room %q: %w", saved[i].Title, err)
		}
	}
	return nil
}

func prepareRoom(item RoomItem, slugs map[string]string, kinds map[string]*model.RoomKind) (model.Room, bool) {
	log := logrus.WithField("room", item.Title)
	if item.Title == "" || len(item.Title) > model.TitleMaxLength {
		log.Warn("Skipping room with invalid title")
		return model.Room{}, false
	}
	if item.Price < 0 {
		log.Warn("Skipping room with negative price")
		return model.Room{}, false
	}
	if len(item.Description) > model.DescriptionMaxLength {
		log.Warn("Skipping room with overlong description")
		return model.Room{}, false
	}

	room := model.Room{
		Title:       item.Title,
		MaxGuests:   item.MaxGuests,
		Description: item.Description,
		Price:       item.Price,
	}

	if item.Kind != "" {
		kind, ok := kinds[item.Kind]
		if !ok {
			log.WithField("kind", item.Kind).Warn("Skipping room with unknown kind")
			return model.Room{}, false
		}
		room.KindID = &kind.ID
		if room.MaxGuests == 0 {
			room.MaxGuests = kind.MaxGuests
		}
	}
	if room.MaxGuests < 1 || room.MaxGuests > model.MaxGuestsValue {
		log.WithField("max_guests", room.MaxGuests).Warn("Skipping room with invalid capacity")
		return model.Room{}, false
	}

	switch {
	case slugs[item.Title] != "":
		room.Slug = slugs[item.Title]
	case item.Slug != "" && parse.IsSlug(item.Slug):
		room.Slug = item.Slug
	default:
		room.Slug = parse.Slug(item.Title)
	}
	if room.Slug == "" {
		log.Warn("Skipping room whose title yields an empty slug")
		return model.Room{}, false
	}
	room.MainImage = model.ImagePath(room.Slug, item.Image)
	return room, true
}

package handlers

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Daffariandhika/ReadUniverse/internal/models"
	"github.com/Daffariandhika/ReadUniverse/internal/store"
)

// memUsers mirrors the Mongo update semantics closely enough for handler
// tests: positional updates touch the first matching element only.
type memUsers struct {
	mu    sync.Mutex
	users []*models.User
	err   error
}

func (m *memUsers) byID(id primitive.ObjectID) *models.User {
	for _, u := range m.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func clone(u *models.User) *models.User {
	c := *u
	c.Cart = append([]models.CartLine{}, u.Cart...)
	c.Orders = append([]models.Order{}, u.Orders...)
	c.LikedBooks = append([]primitive.ObjectID{}, u.LikedBooks...)
	c.Reviews = append([]models.Review{}, u.Reviews...)
	return &c
}

func (m *memUsers) Create(_ context.Context, user models.User) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return primitive.NilObjectID, m.err
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, store.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	m.users = append(m.users, &user)
	return user.ID, nil
}

func (m *memUsers) find(match func(*models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if match(u) {
			return clone(u), nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.ID == id })
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.Email == email })
}

func (m *memUsers) FindByUID(_ context.Context, uid string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.UID == uid })
}

func (m *memUsers) FindByOrderID(_ context.Context, orderID string) (*models.User, error) {
	return m.find(func(u *models.User) bool {
		_, ok := u.FindOrder(orderID)
		return ok
	})
}

func (m *memUsers) List(context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *clone(u))
	}
	return out, nil
}

func (m *memUsers) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, u := range m.users {
		if u.ID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memUsers) UsernameTaken(_ context.Context, username string) (bool, error) {
	_, err := m.find(func(u *models.User) bool { return strings.EqualFold(u.Username, username) })
	return err == nil, nil
}

func (m *memUsers) EmailTaken(_ context.Context, email string) (bool, error) {
	_, err := m.find(func(u *models.User) bool { return strings.EqualFold(u.Email, email) })
	return err == nil, nil
}

func (m *memUsers) UpdatePassword(_ context.Context, email, hash string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			if u.PasswordHash == hash {
				return 0, nil
			}
			u.PasswordHash = hash
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memUsers) update(userID primitive.ObjectID, fn func(u *models.User) bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	u := m.byID(userID)
	if u == nil {
		return false, nil
	}
	return fn(u), nil
}

func (m *memUsers) IncrementCartLine(_ context.Context, userID, bookID primitive.ObjectID) (bool, error) {
	return m.update(userID, func(u *models.User) bool {
		for i := range u.Cart {
			if u.Cart[i].BookID == bookID {
				u.Cart[i].Quantity++
				return true
			}
		}
		return false
	})
}

func (m *memUsers) AppendCartLine(_ context.Context, userID, bookID primitive.ObjectID) (bool, error) {
	return m.update(userID, func(u *models.User) bool {
		for _, line := range u.Cart {
			if line.BookID == bookID {
				return false
			}
		}
		u.Cart = append(u.Cart, models.CartLine{BookID: bookID, Quantity: 1})
		return true
	})
}

func (m *memUsers) RemoveCartLine(_ context.Context, userID, bookID primitive.ObjectID) (bool, error) {
	return m.update(userID, func(u *models.User) bool {
		kept := u.Cart[:0]
		for _, line := range u.Cart {
			if line.BookID != bookID {
				kept = append(kept, line)
			}
		}
		removed := len(kept) != len(u.Cart)
		u.Cart = kept
		return removed
	})
}

func (m *memUsers) SetCartQuantity(_ context.Context, userID, bookID primitive.ObjectID, quantity int) (bool, error) {
	return m.update(userID, func(u *models.User) bool {
		for i := range u.Cart {
			if u.Cart[i].BookID == bookID {
				if u.Cart[i].Quantity == quantity {
					return false
				}
				u.Cart[i].Quantity = quantity
				return true
			}
		}
		return false
	})
}

func (m *memUsers) PlaceOrder(_ context.Context, userID primitive.ObjectID, order models.Order) (bool, error) {
	return m.update(userID, func(u *models.User) bool {
		u.Orders = append(u.Orders, order)
		u.Cart = []models.CartLine{}
		return true
	})
}

func (m *memUsers) setStatus(match func(*models.User) bool, orderID string, allowed func(models.OrderStatus) bool, to models.OrderStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	for _, u := range m.users {
		if !match(u) {
			continue
		}
		for i := range u.Orders {
			if u.Orders[i].OrderID == orderID && allowed(u.Orders[i].Status) {
				u.Orders[i].Status = to
				return true, nil
			}
		}
	}
	return false, nil
}

func (m *memUsers) SetOrderStatus(_ context.Context, orderID string, status models.OrderStatus) (bool, error) {
	return m.setStatus(
		func(*models.User) bool { return true },
		orderID,
		func(models.OrderStatus) bool { return true },
		status,
	)
}

func (m *memUsers) SetOwnOrderStatus(_ context.Context, userID primitive.ObjectID, orderID string, from []models.OrderStatus, to models.OrderStatus) (bool, error) {
	return m.setStatus(
		func(u *models.User) bool { return u.ID == userID },
		orderID,
		func(s models.OrderStatus) bool {
			for _, f := range from {
				if s == f {
					return true
				}
			}
			return false
		},
		to,
	)
}

func (m *memUsers) pull(match func(*models.User) bool, orderID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if !match(u) {
			continue
		}
		for i, o := range u.Orders {
			if o.OrderID == orderID {
				u.Orders = append(u.Orders[:i], u.Orders[i+1:]...)
				return true, nil
			}
		}
	}
	return false, nil
}

func (m *memUsers) PullOrder(_ context.Context, orderID string) (bool, error) {
	return m.pull(func(*models.User) bool { return true }, orderID)
}

func (m *memUsers) PullOwnOrder(_ context.Context, userID primitive.ObjectID, orderID string) (bool, error) {
	return m.pull(func(u *models.User) bool { return u.ID == userID }, orderID)
}

func (m *memUsers) AddLikedBook(_ context.Context, userID, bookID primitive.ObjectID) error {
	_, err := m.update(userID, func(u *models.User) bool {
		if u.HasLiked(bookID) {
			return false
		}
		u.LikedBooks = append(u.LikedBooks, bookID)
		return true
	})
	return err
}

func (m *memUsers) RemoveLikedBook(_ context.Context, userID, bookID primitive.ObjectID) error {
	_, err := m.update(userID, func(u *models.User) bool {
		kept := u.LikedBooks[:0]
		for _, id := range u.LikedBooks {
			if id != bookID {
				kept = append(kept, id)
			}
		}
		u.LikedBooks = kept
		return true
	})
	return err
}

func (m *memUsers) PushReview(_ context.Context, uid string, review models.Review) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.UID == uid {
			u.Reviews = append(u.Reviews, review)
			return clone(u), nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memUsers) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), m.err
}

func (m *memUsers) CountDistinctReviews(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[primitive.ObjectID]bool{}
	for _, u := range m.users {
		for _, r := range u.Reviews {
			seen[r.ID] = true
		}
	}
	return int64(len(seen)), nil
}

func (m *memUsers) CountDistinctOrders(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]bool{}
	for _, u := range m.users {
		for _, o := range u.Orders {
			seen[o.OrderID] = true
		}
	}
	return int64(len(seen)), nil
}

type memBooks struct {
	mu    sync.Mutex
	books []*models.Book
}

func (m *memBooks) Insert(_ context.Context, books []models.Book) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range books {
		b := books[i]
		if b.ID.IsZero() {
			b.ID = primitive.NewObjectID()
		}
		m.books = append(m.books, &b)
	}
	return len(books), nil
}

func (m *memBooks) byID(id primitive.ObjectID) *models.Book {
	for _, b := range m.books {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (m *memBooks) FindByID(_ context.Context, id primitive.ObjectID) (*models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b := m.byID(id); b != nil {
		c := *b
		return &c, nil
	}
	return nil, store.ErrNotFound
}

func (m *memBooks) filter(match func(*models.Book) bool) []models.Book {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Book, 0)
	for _, b := range m.books {
		if match(b) {
			out = append(out, *b)
		}
	}
	return out
}

func (m *memBooks) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Book, error) {
	want := map[primitive.ObjectID]bool{}
	for _, id := range ids {
		want[id] = true
	}
	return m.filter(func(b *models.Book) bool { return want[b.ID] }), nil
}

func (m *memBooks) List(context.Context) ([]models.Book, error) {
	return m.filter(func(*models.Book) bool { return true }), nil
}

func (m *memBooks) ListByOwner(_ context.Context, owner primitive.ObjectID) ([]models.Book, error) {
	return m.filter(func(b *models.Book) bool { return b.Owner == owner }), nil
}

func (m *memBooks) ListByCategory(_ context.Context, category string) ([]models.Book, error) {
	return m.filter(func(b *models.Book) bool {
		if category == "" {
			return true
		}
		for _, c := range b.Category {
			if c == category {
				return true
			}
		}
		return false
	}), nil
}

func (m *memBooks) TopLiked(_ context.Context, limit int64) ([]models.Book, error) {
	all := m.filter(func(*models.Book) bool { return true })
	sort.SliceStable(all, func(i, j int) bool { return all[i].Likes > all[j].Likes })
	if int64(len(all)) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *memBooks) Update(_ context.Context, id primitive.ObjectID, set bson.M) (store.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.byID(id)
	if b == nil {
		b = &models.Book{ID: id}
		m.books = append(m.books, b)
		applySet(b, set)
		return store.UpdateResult{Upserted: true}, nil
	}
	applySet(b, set)
	return store.UpdateResult{Matched: 1, Modified: 1}, nil
}

func applySet(b *models.Book, set bson.M) {
	for k, v := range set {
		switch k {
		case "title":
			b.Title = v.(string)
		case "price":
			b.Price = v.(float64)
		case "stock":
			b.Stock = v.(int)
		}
	}
}

func (m *memBooks) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.books {
		if b.ID == id {
			m.books = append(m.books[:i], m.books[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memBooks) IncrementLikes(_ context.Context, id primitive.ObjectID, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b := m.byID(id); b != nil {
		b.Likes += delta
	}
	return nil
}

func (m *memBooks) Likes(_ context.Context, id primitive.ObjectID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b := m.byID(id); b != nil {
		return b.Likes, nil
	}
	return 0, store.ErrNotFound
}

func (m *memBooks) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.books)), nil
}

func (m *memBooks) distinct(key func(*models.Book) []string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]bool{}
	for _, b := range m.books {
		for _, k := range key(b) {
			seen[k] = true
		}
	}
	return int64(len(seen))
}

func (m *memBooks) CountDistinctCategories(context.Context) (int64, error) {
	return m.distinct(func(b *models.Book) []string { return b.Category }), nil
}

func (m *memBooks) CountDistinctAuthors(context.Context) (int64, error) {
	return m.distinct(func(b *models.Book) []string { return []string{b.AuthorName} }), nil
}

func (m *memBooks) sum(field func(*models.Book) int) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, b := range m.books {
		total += int64(field(b))
	}
	return total
}

func (m *memBooks) TotalStock(context.Context) (int64, error) {
	return m.sum(func(b *models.Book) int { return b.Stock }), nil
}

func (m *memBooks) TotalLikes(context.Context) (int64, error) {
	return m.sum(func(b *models.Book) int { return b.Likes }), nil
}

type memNotifications struct {
	mu    sync.Mutex
	items []*models.Notification
}

func (m *memNotifications) Create(_ context.Context, n models.Notification) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.ID = primitive.NewObjectID()
	m.items = append(m.items, &n)
	return n.ID, nil
}

func (m *memNotifications) ListByUID(_ context.Context, uid string, read bool) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Notification, 0)
	for _, n := range m.items {
		if n.UID == uid && n.Read == read {
			out = append(out, *n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (m *memNotifications) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, n := range m.items {
		if n.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memNotifications) MarkRead(_ context.Context, id primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.items {
		if n.ID == id {
			n.Read = true
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memNotifications) MarkAllRead(_ context.Context, uid string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var modified int64
	for _, n := range m.items {
		if n.UID == uid && !n.Read {
			n.Read = true
			modified++
		}
	}
	return modified, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sakashimaa/go-pet-project/storefront/internal/catalog"
	"github.com/sakashimaa/go-pet-project/storefront/internal/domain"
	"github.com/sakashimaa/go-pet-project/storefront/internal/notify"
	"github.com/sakashimaa/go-pet-project/storefront/internal/repository"
	outboxRepo "github.com/sakashimaa/go-pet-project/storefront/pkg/outbox/repository"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

const session = "session-1"

type failingRepo struct {
	repository.ProductRepository
}

func (failingRepo) Create(context.Context, domain.NewProductInput) (*domain.Product, error) {
	return nil, errors.New("storage unavailable")
}

type StorefrontSuite struct {
	suite.Suite

	ctx      context.Context
	products repository.ProductRepository
	carts    repository.CartStore
	outbox   *outboxRepo.MemoryOutbox
	inbox    *notify.Inbox
	svc      *StorefrontService
}

func (s *StorefrontSuite) SetupTest() {
	s.ctx = context.Background()
	s.products = repository.NewProductRepository(repository.SeedProducts(), zap.NewNop())
	s.carts = repository.NewMemoryCartStore(0)
	s.outbox = outboxRepo.NewMemoryOutboxRepository(0)
	s.inbox = notify.NewInbox(0, 0)
	s.svc = s.newService(s.products)
}

func (s *StorefrontSuite) newService(products repository.ProductRepository) *StorefrontService {
	svc := NewStorefrontService(s.products, s.carts, s.outbox, s.inbox, Options{}, zap.NewNop())
	svc.products = products
	svc.sleep = func(time.Duration) {}
	return svc
}

func (s *StorefrontSuite) messages() []string {
	var out []string
	for _, n := range s.inbox.Drain(session) {
		out = append(out, n.Message)
	}
	return out
}

func (s *StorefrontSuite) farmerInput() domain.NewProductInput {
	return domain.NewProductInput{
		Name:        "Red Onion",
		Description: "Fresh red onions from Nashik",
		Category:    "Storage Crops",
		Price:       4500,
		Stock:       300,
	}
}

func (s *StorefrontSuite) TestListProducts_SearchAndSort() {
	products, err := s.svc.ListProducts(s.ctx, ListQuery{Category: "Rice", Sort: catalog.SortPriceAsc})
	s.Require().NoError(err)
	s.Require().NotEmpty(products)

	for i, p := range products {
		s.Require().Equal("Rice", p.Category)
		if i > 0 {
			s.Require().LessOrEqual(products[i-1].Price, p.Price)
		}
	}
}

func (s *StorefrontSuite) TestCategories() {
	categories, err := s.svc.Categories(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(categories, 6)
}

func (s *StorefrontSuite) TestGetProduct_NotFoundNotifies() {
	_, err := s.svc.GetProduct(s.ctx, session, 999)
	s.Require().ErrorIs(err, domain.ErrProductNotFound)
	s.Require().Equal([]string{MsgNotFound}, s.messages())
}

func (s *StorefrontSuite) TestQuote_Clamps() {
	p, err := s.products.GetByID(s.ctx, 1)
	s.Require().NoError(err)

	q, err := s.svc.Quote(s.ctx, session, 1, p.Stock+10)
	s.Require().NoError(err)
	s.Require().Equal(p.Stock, q.Quantity)
	s.Require().Equal(p.Price*domain.Money(p.Stock), q.Total)

	q, err = s.svc.Quote(s.ctx, session, 1, -4)
	s.Require().NoError(err)
	s.Require().Equal(int64(1), q.Quantity)
	s.Require().Equal(p.Price, q.Total)
}

func (s *StorefrontSuite) TestAddToCart_PersistsAcrossRequests() {
	p, err := s.products.GetByID(s.ctx, 1)
	s.Require().NoError(err)

	_, err = s.svc.AddToCart(s.ctx, session, 1, 1)
	s.Require().NoError(err)
	_, err = s.svc.AddToCart(s.ctx, session, 1, 2)
	s.Require().NoError(err)

	view, err := s.svc.Cart(s.ctx, session)
	s.Require().NoError(err)
	s.Require().Len(view.Lines, 1)
	s.Require().Equal(int64(3), view.UnitCount)
	s.Require().Equal(p.Price*3, view.Total)
	s.Require().Equal(p.Price*3, view.Lines[0].Total)

	s.Require().Equal([]string{
		"Added " + p.Name + " to cart",
		"Added 2 " + p.Name + " to cart",
	}, s.messages())

	other, err := s.svc.Cart(s.ctx, "other-session")
	s.Require().NoError(err)
	s.Require().Empty(other.Lines)
}

func (s *StorefrontSuite) TestAddToCart_StockLimit() {
	p, err := s.products.GetByID(s.ctx, 1)
	s.Require().NoError(err)

	view, err := s.svc.AddToCart(s.ctx, session, 1, p.Stock+5)
	s.Require().NoError(err)
	s.Require().Equal(p.Stock, view.UnitCount)
	s.messages()

	view, err = s.svc.AddToCart(s.ctx, session, 1, 1)
	s.Require().ErrorIs(err, domain.ErrStockLimitReached)
	s.Require().Equal(p.Stock, view.UnitCount)
	s.Require().Equal([]string{MsgStockLimit}, s.messages())

	_, err = s.svc.Increment(s.ctx, session, 1)
	s.Require().ErrorIs(err, domain.ErrStockLimitReached)
}

func (s *StorefrontSuite) TestAddToCart_UnknownProduct() {
	_, err := s.svc.AddToCart(s.ctx, session, 999, 1)
	s.Require().ErrorIs(err, domain.ErrProductNotFound)

	view, err := s.svc.Cart(s.ctx, session)
	s.Require().NoError(err)
	s.Require().Empty(view.Lines)
}

func (s *StorefrontSuite) TestDecrementToZeroRemoves() {
	_, err := s.svc.AddToCart(s.ctx, session, 2, 1)
	s.Require().NoError(err)
	s.messages()

	view, err := s.svc.Decrement(s.ctx, session, 2)
	s.Require().NoError(err)
	s.Require().Empty(view.Lines)
	s.Require().Equal([]string{MsgItemRemoved}, s.messages())

	view, err = s.svc.Decrement(s.ctx, session, 2)
	s.Require().NoError(err)
	s.Require().Empty(view.Lines)
	s.Require().Empty(s.messages())
}

func (s *StorefrontSuite) TestSetQuantityAndRemove() {
	_, err := s.svc.AddToCart(s.ctx, session, 2, 1)
	s.Require().NoError(err)
	_, err = s.svc.AddToCart(s.ctx, session, 3, 1)
	s.Require().NoError(err)
	s.messages()

	view, err := s.svc.SetQuantity(s.ctx, session, 2, 4)
	s.Require().NoError(err)
	s.Require().Equal(int64(5), view.UnitCount)

	view, err = s.svc.SetQuantity(s.ctx, session, 2, 0)
	s.Require().NoError(err)
	s.Require().Len(view.Lines, 1)
	s.Require().Equal([]string{MsgItemRemoved}, s.messages())

	view, err = s.svc.RemoveFromCart(s.ctx, session, 3)
	s.Require().NoError(err)
	s.Require().Empty(view.Lines)
	s.Require().Equal([]string{MsgItemRemoved}, s.messages())

	_, err = s.svc.RemoveFromCart(s.ctx, session, 3)
	s.Require().NoError(err)
	s.Require().Empty(s.messages())
}

func (s *StorefrontSuite) TestSetQuantity_AbsentLine() {
	_, err := s.svc.AddToCart(s.ctx, session, 2, 1)
	s.Require().NoError(err)
	s.messages()

	view, err := s.svc.SetQuantity(s.ctx, session, 3, 2)
	s.Require().ErrorIs(err, domain.ErrLineNotFound)
	s.Require().Len(view.Lines, 1)
	s.Require().Equal(int64(1), view.UnitCount)

	_, err = s.svc.Increment(s.ctx, session, 3)
	s.Require().ErrorIs(err, domain.ErrLineNotFound)

	view, err = s.svc.SetQuantity(s.ctx, session, 3, 0)
	s.Require().NoError(err)
	s.Require().Len(view.Lines, 1)
	s.Require().Empty(s.messages())

	items, err := s.carts.Load(s.ctx, session)
	s.Require().NoError(err)
	s.Require().Equal([]domain.CartItem{{ProductID: 2, Quantity: 1}}, items)
}

func (s *StorefrontSuite) TestSessionLocksReleased() {
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = s.svc.AddToCart(s.ctx, fmt.Sprintf("visitor-%d", i%7), 1, 1)
		}(i)
	}
	wg.Wait()

	s.Require().Zero(s.svc.lockCount())

	unlock := s.svc.lockSession(session)
	s.Require().Equal(1, s.svc.lockCount())
	unlock()
	s.Require().Zero(s.svc.lockCount())
}

func (s *StorefrontSuite) TestCheckout_NotImplemented() {
	s.Require().ErrorIs(s.svc.Checkout(s.ctx, session), domain.ErrCheckoutNotImplemented)
}

func (s *StorefrontSuite) TestSubmitProduct_Success() {
	before, err := s.products.List(s.ctx)
	s.Require().NoError(err)

	p, err := s.svc.SubmitProduct(s.ctx, session, domain.RoleFarmer, s.farmerInput())
	s.Require().NoError(err)
	s.Require().Equal(int64(13), p.ID)
	s.Require().Equal(p.CreatedAt, p.UpdatedAt)

	after, err := s.products.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(after, len(before)+1)
	s.Require().Equal(p, after[len(after)-1])

	s.Require().Equal([]string{MsgProductAdded}, s.messages())

	events, err := s.outbox.GetUnpublishedEvents(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Require().Equal(domain.EventProductCreated, events[0].EventType)
	s.Require().Equal("13", events[0].AggregateID)
	s.Require().Equal("product_events", events[0].Topic)
}

func (s *StorefrontSuite) TestSubmitProduct_NotFarmer() {
	_, err := s.svc.SubmitProduct(s.ctx, session, domain.RoleBuyer, s.farmerInput())
	s.Require().ErrorIs(err, domain.ErrForbidden)
	s.Require().Equal([]string{MsgForbidden}, s.messages())

	products, err := s.products.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(products, 12)
	s.Require().Zero(s.outbox.Pending())
}

func (s *StorefrontSuite) TestSubmitProduct_Failure() {
	svc := s.newService(failingRepo{s.products})

	_, err := svc.SubmitProduct(s.ctx, session, domain.RoleFarmer, s.farmerInput())
	s.Require().ErrorIs(err, domain.ErrSubmissionFailure)
	s.Require().Equal([]string{MsgProductFailed}, s.messages())
	s.Require().Zero(s.outbox.Pending())

	products, err := s.products.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(products, 12)

	// the form is usable again after a failure
	svc.products = s.products
	_, err = svc.SubmitProduct(s.ctx, session, domain.RoleFarmer, s.farmerInput())
	s.Require().NoError(err)
}

func (s *StorefrontSuite) TestSubmitProduct_OutOfRange() {
	input := s.farmerInput()
	input.Price = domain.MaxPrice + 1

	_, err := s.svc.SubmitProduct(s.ctx, session, domain.RoleFarmer, input)
	s.Require().ErrorIs(err, domain.ErrInvalidProduct)

	products, err := s.products.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(products, 12)
	s.Require().Zero(s.outbox.Pending())
}

func (s *StorefrontSuite) TestSubmitProduct_InProgress() {
	entered := make(chan struct{})
	release := make(chan struct{})
	s.svc.sleep = func(time.Duration) {
		close(entered)
		<-release
	}

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = s.svc.SubmitProduct(s.ctx, session, domain.RoleFarmer, s.farmerInput())
	}()

	<-entered
	_, err := s.svc.SubmitProduct(s.ctx, session, domain.RoleFarmer, s.farmerInput())
	s.Require().ErrorIs(err, domain.ErrSubmissionInProgress)

	close(release)
	wg.Wait()
	s.Require().NoError(firstErr)

	products, err := s.products.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(products, 13)
}

func (s *StorefrontSuite) TestConcurrentAddsRespectStock() {
	p, err := s.products.GetByID(s.ctx, 1)
	s.Require().NoError(err)

	var wg sync.WaitGroup
	for i := int64(0); i < p.Stock+20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.svc.AddToCart(s.ctx, session, 1, 1)
		}()
	}
	wg.Wait()

	view, err := s.svc.Cart(s.ctx, session)
	s.Require().NoError(err)
	s.Require().Equal(p.Stock, view.UnitCount)
}

func TestStorefrontSuite(t *testing.T) {
	suite.Run(t, new(StorefrontSuite))
}

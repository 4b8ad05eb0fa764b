package service

import (
	"context"
	"sync"
	"time"

	"github.com/Aru0077/elife-service/dao"
	"github.com/Aru0077/elife-service/models"
	"github.com/Aru0077/elife-service/pkg/unitel"
	"github.com/Aru0077/elife-service/types"
)

// fakeOrders 内存版订单仓储，状态机守卫语义与 MySQL 实现一致
type fakeOrders struct {
	mu     sync.Mutex
	orders map[string]*models.UnitelOrder
}

func newFakeOrders(orders ...*models.UnitelOrder) *fakeOrders {
	f := &fakeOrders{orders: make(map[string]*models.UnitelOrder)}
	for _, o := range orders {
		f.orders[o.OrderNo] = o
	}
	return f
}

func (f *fakeOrders) Create(ctx context.Context, order *models.UnitelOrder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[order.OrderNo] = order
	return nil
}

func (f *fakeOrders) FindByOrderNo(ctx context.Context, orderNo string) (*models.UnitelOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[orderNo]
	if !ok {
		return nil, dao.ErrOrderNotFound
	}
	clone := *order
	return &clone, nil
}

func (f *fakeOrders) FindByOpenid(ctx context.Context, openid string, query dao.OrderQuery) ([]*models.UnitelOrder, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*models.UnitelOrder
	for _, o := range f.orders {
		if o.Openid == openid {
			clone := *o
			result = append(result, &clone)
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakeOrders) MarkPaid(ctx context.Context, orderNo string, paidAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[orderNo]
	if !ok || order.PaymentStatus != models.PaymentStatusUnpaid {
		return false, nil
	}
	order.PaymentStatus = models.PaymentStatusPaid
	order.PaidAt = &paidAt
	return true, nil
}

func (f *fakeOrders) MarkRechargeProcessing(ctx context.Context, orderNo string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[orderNo]
	if !ok || order.RechargeStatus != models.RechargeStatusPending {
		return false, nil
	}
	order.RechargeStatus = models.RechargeStatusProcessing
	return true, nil
}

func (f *fakeOrders) MarkRechargeSuccess(ctx context.Context, orderNo string, result *dao.RechargeResult, completedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if order, ok := f.orders[orderNo]; ok && order.RechargeStatus == models.RechargeStatusProcessing {
		order.RechargeStatus = models.RechargeStatusSuccess
		order.SvID = result.SvID
		order.ApiResult = result.ApiResult
		order.CompletedAt = &completedAt
	}
	return nil
}

func (f *fakeOrders) MarkRechargeFailed(ctx context.Context, orderNo string, errCode, errMsg string, completedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if order, ok := f.orders[orderNo]; ok && order.RechargeStatus == models.RechargeStatusProcessing {
		order.RechargeStatus = models.RechargeStatusFailed
		order.ErrorCode = errCode
		order.ErrorMessage = errMsg
		order.CompletedAt = &completedAt
	}
	return nil
}

func (f *fakeOrders) MarkRechargeTimeout(ctx context.Context, orderNo string, errMsg string, completedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if order, ok := f.orders[orderNo]; ok && order.RechargeStatus == models.RechargeStatusProcessing {
		order.RechargeStatus = models.RechargeStatusTimeout
		order.ErrorCode = "TIMEOUT"
		order.ErrorMessage = errMsg
		order.CompletedAt = &completedAt
	}
	return nil
}

func (f *fakeOrders) get(orderNo string) *models.UnitelOrder {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[orderNo]
}

// fakeMarker 内存版回调防重标记
type fakeMarker struct {
	mu        sync.Mutex
	processed map[string]bool
	checkErr  error
}

func newFakeMarker() *fakeMarker {
	return &fakeMarker{processed: make(map[string]bool)}
}

func (f *fakeMarker) IsProcessed(ctx context.Context, transactionID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.checkErr != nil {
		return false, f.checkErr
	}
	return f.processed[transactionID], nil
}

func (f *fakeMarker) MarkProcessed(ctx context.Context, transactionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.processed[transactionID] = true
	return nil
}

func (f *fakeMarker) Clear(ctx context.Context, transactionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.processed, transactionID)
	return nil
}

// fakeQueue 记录入队的任务
type fakeQueue struct {
	mu         sync.Mutex
	jobs       []*types.RechargeJob
	enqueueErr error
}

func (f *fakeQueue) EnqueueRechargeJob(ctx context.Context, job *types.RechargeJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.enqueueErr != nil {
		return f.enqueueErr
	}
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeQueue) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.jobs)
}

// fakeLogs 内存版充值日志，order_no 唯一
type fakeLogs struct {
	mu      sync.Mutex
	entries map[string]*models.RechargeLog
}

func newFakeLogs() *fakeLogs {
	return &fakeLogs{entries: make(map[string]*models.RechargeLog)}
}

func (f *fakeLogs) Create(ctx context.Context, entry *models.RechargeLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entries[entry.OrderNo]; ok {
		return dao.ErrDuplicateRecharge
	}
	f.entries[entry.OrderNo] = entry
	return nil
}

func (f *fakeLogs) MarkSuccess(ctx context.Context, orderNo string, result *dao.RechargeResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if entry, ok := f.entries[orderNo]; ok {
		entry.Status = models.RechargeStatusSuccess
	}
	return nil
}

func (f *fakeLogs) MarkFailed(ctx context.Context, orderNo string, errCode, errMsg string, raw []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if entry, ok := f.entries[orderNo]; ok {
		entry.Status = models.RechargeStatusFailed
		entry.ErrorCode = errCode
		entry.ErrorMessage = errMsg
	}
	return nil
}

func (f *fakeLogs) MarkTimeout(ctx context.Context, orderNo string, errMsg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if entry, ok := f.entries[orderNo]; ok {
		entry.Status = models.RechargeStatusTimeout
		entry.ErrorCode = "TIMEOUT"
		entry.ErrorMessage = errMsg
	}
	return nil
}

func (f *fakeLogs) get(orderNo string) *models.RechargeLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries[orderNo]
}

// fakeGateway 运营商充值入口桩
type fakeGateway struct {
	mu    sync.Mutex
	calls int
	resp  *unitel.RechargeResponse
	err   error
}

func (f *fakeGateway) do() (*unitel.RechargeResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.resp, f.err
}

func (f *fakeGateway) RechargeBalance(ctx context.Context, params *unitel.RechargeBalanceParams) (*unitel.RechargeResponse, error) {
	return f.do()
}

func (f *fakeGateway) RechargeData(ctx context.Context, params *unitel.RechargeDataParams) (*unitel.RechargeResponse, error) {
	return f.do()
}

func (f *fakeGateway) PayInvoice(ctx context.Context, params *unitel.PayInvoiceParams) (*unitel.RechargeResponse, error) {
	return f.do()
}

func (f *fakeGateway) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeCatalog 资费查询桩
type fakeCatalog struct {
	serviceTypes *unitel.ServiceTypeResponse
	invoice      *unitel.InvoiceResponse
	pkg          *unitel.PackageDetail
	pkgErr       error
}

func (f *fakeCatalog) CachedServiceTypes(ctx context.Context, openid, msisdn string) (*unitel.ServiceTypeResponse, error) {
	return f.serviceTypes, nil
}

func (f *fakeCatalog) CachedInvoice(ctx context.Context, openid, msisdn string) (*unitel.InvoiceResponse, error) {
	return f.invoice, nil
}

func (f *fakeCatalog) FindPackageByCode(ctx context.Context, params unitel.FindPackageParams) (*unitel.PackageDetail, error) {
	if f.pkgErr != nil {
		return nil, f.pkgErr
	}
	return f.pkg, nil
}

// fakeExchange 固定汇率
type fakeExchange struct {
	rate float64
}

func (f *fakeExchange) Rate(ctx context.Context) (float64, error) {
	return f.rate, nil
}
